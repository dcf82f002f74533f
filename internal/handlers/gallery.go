package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/nail_salon/internal/apperr"
	"github.com/Skotchmaster/nail_salon/internal/logging"
	"github.com/Skotchmaster/nail_salon/internal/models"
	"github.com/Skotchmaster/nail_salon/internal/repo"
	"github.com/Skotchmaster/nail_salon/internal/service"
	"github.com/Skotchmaster/nail_salon/internal/storage"
	"github.com/Skotchmaster/nail_salon/internal/util"
)

type GalleryService interface {
	Create(ctx context.Context, in service.GalleryInput) (*models.GalleryItem, error)
	Upload(ctx context.Context, file storage.File, in service.GalleryInput) (*models.GalleryItem, error)
	Get(ctx context.Context, id string) (*models.GalleryItem, error)
	List(ctx context.Context, f repo.GalleryFilter, p repo.Page) ([]models.GalleryItem, int64, error)
	Update(ctx context.Context, id string, in service.GalleryInput) (*models.GalleryItem, error)
	Delete(ctx context.Context, id string) error
}

type GalleryHandler struct {
	Gallery GalleryService
}

func (h *GalleryHandler) CreateGalleryItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "gallery_create")

	var req service.GalleryInput
	if err := bind(c, l, "create_gallery_item", &req); err != nil {
		return err
	}

	g, err := h.Gallery.Create(ctx, req)
	if err != nil {
		return fail(l, "create_gallery_item", err)
	}

	l.Info("create_gallery_item_success", "status", 201, "gallery_id", g.ID)
	return c.JSON(http.StatusCreated, g)
}

// UploadGalleryItem takes a multipart form with the image under "file" and
// the item fields as plain form values.
func (h *GalleryHandler) UploadGalleryItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "gallery_upload")

	fh, err := c.FormFile("file")
	if err != nil {
		return fail(l, "upload_gallery_item", fmt.Errorf("%w: file is required", apperr.ErrValidation))
	}
	in, err := galleryForm(c)
	if err != nil {
		return fail(l, "upload_gallery_item", err)
	}

	src, err := fh.Open()
	if err != nil {
		return fail(l, "upload_gallery_item", fmt.Errorf("open upload: %w", err))
	}
	defer src.Close()

	file := storage.File{
		Name:        fh.Filename,
		ContentType: fh.Header.Get(echo.HeaderContentType),
		Size:        fh.Size,
		Body:        src,
	}
	g, err := h.Gallery.Upload(ctx, file, in)
	if err != nil {
		return fail(l, "upload_gallery_item", err)
	}

	l.Info("upload_gallery_item_success", "status", 201, "gallery_id", g.ID, "size", fh.Size)
	return c.JSON(http.StatusCreated, g)
}

func galleryForm(c echo.Context) (service.GalleryInput, error) {
	var in service.GalleryInput
	text := func(name string) *string {
		if v := c.FormValue(name); v != "" {
			return &v
		}
		return nil
	}

	in.Title = text("title")
	in.Description = text("description")
	in.Price = text("price")
	in.Duration = text("duration")
	in.Category = optionalEnum[models.GalleryCategory](c.FormValue("category"))

	var err error
	if in.Featured, err = util.ParseOptionalBool("featured", c.FormValue("featured")); err != nil {
		return in, err
	}
	if in.IsActive, err = util.ParseOptionalBool("isActive", c.FormValue("isActive")); err != nil {
		return in, err
	}
	if v := c.FormValue("sortIndex"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return in, fmt.Errorf("%w: sortIndex must be an integer", apperr.ErrValidation)
		}
		in.SortIndex = &n
	}
	return in, nil
}

func (h *GalleryHandler) GetGalleryItems(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "gallery_list")

	page, err := pageFromQuery(c)
	if err != nil {
		return fail(l, "list_gallery", err)
	}
	f := repo.GalleryFilter{Category: optionalEnum[models.GalleryCategory](c.QueryParam("category"))}
	if f.Featured, err = util.ParseOptionalBool("featured", c.QueryParam("featured")); err != nil {
		return fail(l, "list_gallery", err)
	}
	if f.IsActive, err = util.ParseOptionalBool("isActive", c.QueryParam("isActive")); err != nil {
		return fail(l, "list_gallery", err)
	}

	items, total, err := h.Gallery.List(ctx, f, page)
	if err != nil {
		return fail(l, "list_gallery", err)
	}
	return writePage(c, items, total, page)
}

func (h *GalleryHandler) GetGalleryItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "gallery_get")

	g, err := h.Gallery.Get(ctx, c.Param("id"))
	if err != nil {
		return fail(l, "get_gallery_item", err)
	}
	return c.JSON(http.StatusOK, g)
}

func (h *GalleryHandler) PatchGalleryItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "gallery_patch")

	var req service.GalleryInput
	if err := bind(c, l, "patch_gallery_item", &req); err != nil {
		return err
	}

	g, err := h.Gallery.Update(ctx, c.Param("id"), req)
	if err != nil {
		return fail(l, "patch_gallery_item", err)
	}

	l.Info("patch_gallery_item_success", "status", 200, "gallery_id", g.ID)
	return c.JSON(http.StatusOK, g)
}

func (h *GalleryHandler) DeleteGalleryItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "gallery_delete")

	id := c.Param("id")
	if err := h.Gallery.Delete(ctx, id); err != nil {
		return fail(l, "delete_gallery_item", err)
	}

	l.Info("delete_gallery_item_success", "status", 204, "gallery_id", id)
	return c.NoContent(http.StatusNoContent)
}
