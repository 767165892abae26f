package storefrontserver

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	referencedomain "github.com/Apurer/storefront-api/internal/domains/reference/domain"
	referenceports "github.com/Apurer/storefront-api/internal/domains/reference/ports"
	apierrors "github.com/Apurer/storefront-api/internal/shared/errors"
)

// TableAPI lets staff browse and export the reference tables.
type TableAPI struct {
	tables    referenceports.Service
	responder *apierrors.ChainedResponder
}

func NewTableAPI(tables referenceports.Service, responder *apierrors.ChainedResponder) TableAPI {
	return TableAPI{tables: tables, responder: responder}
}

// Get /v1/tables
func (api *TableAPI) ListTables(c *gin.Context) {
	kinds, err := api.tables.ListTables(c.Request.Context(), currentActor(c))
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	names := make([]string, 0, len(kinds))
	for _, k := range kinds {
		names = append(names, string(k))
	}
	c.JSON(http.StatusOK, names)
}

// Get /v1/tables/:kind
func (api *TableAPI) BrowseTable(c *gin.Context) {
	table, err := api.tables.Browse(c.Request.Context(), currentActor(c), referencedomain.Kind(c.Param("kind")))
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromDomainTable(table))
}

// Get /v1/tables/:kind/export
// Download the table as semicolon separated CSV
func (api *TableAPI) ExportTable(c *gin.Context) {
	kind := referencedomain.Kind(c.Param("kind"))
	// buffered so a failure still gets a problem response instead of a partial file
	var buf bytes.Buffer
	if err := api.tables.ExportCSV(c.Request.Context(), currentActor(c), kind, &buf); err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", string(kind)+".csv"))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}
