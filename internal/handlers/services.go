package handlers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/nail_salon/internal/logging"
	"github.com/Skotchmaster/nail_salon/internal/models"
	"github.com/Skotchmaster/nail_salon/internal/repo"
	"github.com/Skotchmaster/nail_salon/internal/service"
	"github.com/Skotchmaster/nail_salon/internal/util"
)

type CatalogService interface {
	Create(ctx context.Context, in service.ServiceInput) (*models.Service, error)
	Get(ctx context.Context, id string) (*models.Service, error)
	List(ctx context.Context, f repo.ServiceFilter, p repo.Page) ([]models.Service, int64, error)
	Update(ctx context.Context, id string, in service.ServiceInput) (*models.Service, error)
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, query string, p repo.Page) ([]models.Service, int64, error)
}

type ServiceHandler struct {
	Catalog CatalogService
}

func (h *ServiceHandler) CreateService(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "services_create")

	var req service.ServiceInput
	if err := bind(c, l, "create_service", &req); err != nil {
		return err
	}

	s, err := h.Catalog.Create(ctx, req)
	if err != nil {
		return fail(l, "create_service", err)
	}

	l.Info("create_service_success", "status", 201, "service_id", s.ID)
	return c.JSON(http.StatusCreated, s)
}

func (h *ServiceHandler) GetServices(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "services_list")

	page, err := pageFromQuery(c)
	if err != nil {
		return fail(l, "list_services", err)
	}
	f := repo.ServiceFilter{Category: optionalEnum[models.ServiceCategory](c.QueryParam("category"))}
	if f.Featured, err = util.ParseOptionalBool("featured", c.QueryParam("featured")); err != nil {
		return fail(l, "list_services", err)
	}
	if f.IsActive, err = util.ParseOptionalBool("isActive", c.QueryParam("isActive")); err != nil {
		return fail(l, "list_services", err)
	}

	items, total, err := h.Catalog.List(ctx, f, page)
	if err != nil {
		return fail(l, "list_services", err)
	}
	return writePage(c, items, total, page)
}

func (h *ServiceHandler) SearchServices(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "services_search")

	page, err := pageFromQuery(c)
	if err != nil {
		return fail(l, "search_services", err)
	}

	items, total, err := h.Catalog.Search(ctx, c.QueryParam("q"), page)
	if err != nil {
		return fail(l, "search_services", err)
	}
	return writePage(c, items, total, page)
}

func (h *ServiceHandler) GetService(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "services_get")

	s, err := h.Catalog.Get(ctx, c.Param("id"))
	if err != nil {
		return fail(l, "get_service", err)
	}
	return c.JSON(http.StatusOK, s)
}

func (h *ServiceHandler) PatchService(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "services_patch")

	var req service.ServiceInput
	if err := bind(c, l, "patch_service", &req); err != nil {
		return err
	}

	s, err := h.Catalog.Update(ctx, c.Param("id"), req)
	if err != nil {
		return fail(l, "patch_service", err)
	}

	l.Info("patch_service_success", "status", 200, "service_id", s.ID)
	return c.JSON(http.StatusOK, s)
}

func (h *ServiceHandler) DeleteService(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "services_delete")

	id := c.Param("id")
	if err := h.Catalog.Delete(ctx, id); err != nil {
		return fail(l, "delete_service", err)
	}

	l.Info("delete_service_success", "status", 204, "service_id", id)
	return c.NoContent(http.StatusNoContent)
}
