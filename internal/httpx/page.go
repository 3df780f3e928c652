package httpx

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/MikeMC777/cod-delivery/internal/apperr"
	"github.com/MikeMC777/cod-delivery/internal/sqlq"
)

type Page struct {
	Page   int `json:"page"`
	Limit  int `json:"limit"`
	Offset int `json:"-"`
}

// ParsePage reads ?page=&limit= (page starts at 1). Non-numeric values are
// a validation error; out-of-range values are clamped.
func ParsePage(c *gin.Context) (Page, error) {
	page, err := QueryInt(c, "page", 1)
	if err != nil {
		return Page{}, err
	}
	limit, err := QueryInt(c, "limit", 20)
	if err != nil {
		return Page{}, err
	}
	if page < 1 {
		page = 1
	}
	limit, _ = sqlq.NormalizePage(limit, 0)
	return Page{Page: page, Limit: limit, Offset: (page - 1) * limit}, nil
}

// QueryInt reads an integer query parameter, returning def when it is absent.
func QueryInt(c *gin.Context, key string, def int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperr.Validation(apperr.CodeInvalidRequest, apperr.Details{"field": key})
	}
	return n, nil
}
