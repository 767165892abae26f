package storefrontserver

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	catalogdomain "github.com/Apurer/storefront-api/internal/domains/catalog/domain"
	catalogports "github.com/Apurer/storefront-api/internal/domains/catalog/ports"
	apierrors "github.com/Apurer/storefront-api/internal/shared/errors"
)

// ProductAPI serves the catalog.
type ProductAPI struct {
	catalog   catalogports.Service
	responder *apierrors.ChainedResponder
}

func NewProductAPI(catalog catalogports.Service, responder *apierrors.ChainedResponder) ProductAPI {
	return ProductAPI{catalog: catalog, responder: responder}
}

// Get /v1/products
// Search the catalog
func (api *ProductAPI) SearchProducts(c *gin.Context) {
	query, err := searchQueryFromRequest(c)
	if err != nil {
		api.responder.BadRequest(c, err.Error())
		return
	}
	products, err := api.catalog.Search(c.Request.Context(), query)
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromDomainProducts(products))
}

func searchQueryFromRequest(c *gin.Context) (catalogdomain.SearchQuery, error) {
	sort, err := catalogdomain.ParseSortOrder(c.Query("sort"))
	if err != nil {
		return catalogdomain.SearchQuery{}, err
	}
	query := catalogdomain.SearchQuery{Text: c.Query("q"), Sort: sort}
	if raw := c.Query("categoryId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return catalogdomain.SearchQuery{}, err
		}
		query.CategoryID = &id
	}
	if query.OnlyExpensive, err = queryBool(c, "expensive"); err != nil {
		return catalogdomain.SearchQuery{}, err
	}
	if query.LowStock, err = queryBool(c, "lowStock"); err != nil {
		return catalogdomain.SearchQuery{}, err
	}
	return query, nil
}

func queryBool(c *gin.Context, name string) (bool, error) {
	raw := c.Query(name)
	if raw == "" {
		return false, nil
	}
	return strconv.ParseBool(raw)
}

// Get /v1/products/:id
// Find product by ID
func (api *ProductAPI) GetProduct(c *gin.Context) {
	id, ok := parseIDParam(c, api.responder, "id")
	if !ok {
		return
	}
	product, err := api.catalog.GetProduct(c.Request.Context(), id)
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromDomainProduct(product))
}

// Post /v1/products
// Add a product to the catalog
func (api *ProductAPI) CreateProduct(c *gin.Context) {
	var payload ProductMutation
	if err := c.ShouldBindJSON(&payload); err != nil {
		api.responder.BadRequest(c, err.Error())
		return
	}
	created, err := api.catalog.CreateProduct(c.Request.Context(), currentActor(c), payload.toDomain(0))
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, fromDomainProduct(created))
}

// Put /v1/products/:id
// Update an existing product
func (api *ProductAPI) UpdateProduct(c *gin.Context) {
	id, ok := parseIDParam(c, api.responder, "id")
	if !ok {
		return
	}
	var payload ProductMutation
	if err := c.ShouldBindJSON(&payload); err != nil {
		api.responder.BadRequest(c, err.Error())
		return
	}
	updated, err := api.catalog.UpdateProduct(c.Request.Context(), currentActor(c), payload.toDomain(id))
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromDomainProduct(updated))
}

// Delete /v1/products/:id
// Delete a product that no order references
func (api *ProductAPI) DeleteProduct(c *gin.Context) {
	id, ok := parseIDParam(c, api.responder, "id")
	if !ok {
		return
	}
	if err := api.catalog.DeleteProduct(c.Request.Context(), currentActor(c), id); err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
