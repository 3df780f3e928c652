package db_test

import (
	"os"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeMC777/cod-delivery/internal/auth"
	"github.com/MikeMC777/cod-delivery/internal/cod"
	"github.com/MikeMC777/cod-delivery/internal/order"
)

const schemaPath = "../../db/schema.sql"

// checkValues returns the literals of "CHECK (column IN (...))" inside the
// CREATE TABLE block of table.
func checkValues(t *testing.T, schema, table, column string) []string {
	t.Helper()
	start := strings.Index(schema, "CREATE TABLE IF NOT EXISTS "+table+" (")
	require.GreaterOrEqual(t, start, 0, "table %s missing", table)
	block := schema[start:]
	block = block[:strings.Index(block, "\n);")]

	m := regexp.MustCompile(`CHECK \(` + column + ` IN \(([^)]*)\)\)`).FindStringSubmatch(block)
	require.NotNil(t, m, "no CHECK list for %s.%s", table, column)

	var out []string
	for _, lit := range regexp.MustCompile(`'([^']*)'`).FindAllStringSubmatch(m[1], -1) {
		out = append(out, lit[1])
	}
	return out
}

func strs[T ~string](vs ...T) []string {
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = string(v)
	}
	return out
}

func TestSchema_CheckListsMatchGoEnums(t *testing.T) {
	raw, err := os.ReadFile(schemaPath)
	require.NoError(t, err)
	schema := string(raw)

	cases := []struct {
		table, column string
		want          []string
	}{
		{"orders", "order_status", strs(order.StatusPending, order.StatusConfirmed, order.StatusPreparing,
			order.StatusOutForDelivery, order.StatusDelivered, order.StatusCompleted, order.StatusCancelled)},
		{"orders", "payment_status", strs(order.PaymentPending, order.PaymentPaid, order.PaymentCancelled)},
		{"orders", "payment_method", strs(order.PaymentCOD, order.PaymentCard)},
		{"cod_collections", "collection_status", strs(cod.StatusPending, cod.StatusCollected, cod.StatusCancelled)},
		{"cod_collections", "payment_method", strs(cod.MethodCash, cod.MethodCardOnDelivery)},
		{"users", "role", strs(auth.RoleCustomer, auth.RoleDelivery, auth.RoleAdmin)},
	}
	for _, tc := range cases {
		got := checkValues(t, schema, tc.table, tc.column)
		assert.ElementsMatch(t, tc.want, got, "%s.%s", tc.table, tc.column)
	}

	// manual adjustments are written by the product repository as a literal
	movements := checkValues(t, schema, "inventory_movements", "movement_type")
	assert.Subset(t, movements, append(strs(order.MovementSale, order.MovementReturn), "adjustment"))
}

func TestSchema_CancellationValuesAccepted(t *testing.T) {
	raw, err := os.ReadFile(schemaPath)
	require.NoError(t, err)

	assert.Contains(t, checkValues(t, string(raw), "orders", "payment_status"), string(order.PaymentCancelled))
	assert.Contains(t, checkValues(t, string(raw), "orders", "order_status"), string(order.StatusCancelled))
	assert.Contains(t, checkValues(t, string(raw), "cod_collections", "collection_status"), string(cod.StatusCancelled))
}
