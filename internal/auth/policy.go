package auth

import (
	"fmt"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	stringadapter "github.com/casbin/casbin/v2/persist/string-adapter"
)

const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && keyMatch2(r.obj, p.obj) && (r.act == p.act || p.act == "*")
`

// DefaultPolicy maps roles to the gin route patterns they may call.
// Admins inherit everything delivery agents can do.
const DefaultPolicy = `
p, customer, /orders, POST
p, customer, /orders/my-orders, GET
p, customer, /orders/:order_id, GET
p, customer, /orders/:order_id/cancel, PATCH
p, delivery, /cod/collections, GET
p, delivery, /cod/collections/:collection_id/collect, POST
p, delivery, /cod/my-cod-orders, GET
p, delivery, /cod/stats/summary, GET
p, admin, /orders/:order_id, GET
p, admin, /admin/*, *
g, admin, delivery
`

// Authorizer decides whether a role may call a route.
type Authorizer struct {
	enforcer *casbin.Enforcer
}

func NewAuthorizer(policy string) (*Authorizer, error) {
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, fmt.Errorf("casbin model: %w", err)
	}
	e, err := casbin.NewEnforcer(m, stringadapter.NewAdapter(policy))
	if err != nil {
		return nil, fmt.Errorf("casbin enforcer: %w", err)
	}
	return &Authorizer{enforcer: e}, nil
}

// Allowed reports whether role may perform method on the route pattern.
func (a *Authorizer) Allowed(role Role, route, method string) (bool, error) {
	return a.enforcer.Enforce(string(role), route, method)
}
