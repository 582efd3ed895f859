package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/crateyy/internal/application"
	"github.com/oksasatya/crateyy/internal/catalog"
	"github.com/oksasatya/crateyy/internal/domain/entity"
	"github.com/oksasatya/crateyy/pkg/helpers"
	"github.com/oksasatya/crateyy/pkg/response"
	"github.com/oksasatya/crateyy/pkg/validation"
)

type ProductHandler struct {
	Svc    *application.CatalogService
	Logger *logrus.Logger
}

func NewProductHandler(svc *application.CatalogService, logger *logrus.Logger) *ProductHandler {
	if logger == nil {
		logger = helpers.NewNopLogger()
	}
	return &ProductHandler{Svc: svc, Logger: logger}
}

// productForm is the admin panel submission. Every field arrives as text;
// an empty value means the field was not supplied.
type productForm struct {
	Name          string `form:"name" json:"name"`
	Price         numberText `form:"price" json:"price"`
	Discount      numberText `form:"discount" json:"discount"`
	Category      string `form:"category" json:"category"`
	Type          string `form:"type" json:"type"`
	ExistingImage string `form:"existingImage" json:"existingImage"`
}

// numberText holds a numeric field as text. Forms always send text; JSON
// clients may send either 49.5 or "49.50".
type numberText string

func (n *numberText) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*n = ""
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = numberText(s)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return err
	}
	*n = numberText(num.String())
	return nil
}

type searchQuery struct {
	Q        string `form:"q"`
	Category string `form:"category"`
	Price    string `form:"price" binding:"omitempty,bucket"`
}

// List GET /api/products
func (h *ProductHandler) List(c *gin.Context) {
	products := h.Svc.List(c.Request.Context())
	response.List(c, products, "products")
}

// Search GET /api/products/search?q=&category=&price=
func (h *ProductHandler) Search(c *gin.Context) {
	var req searchQuery
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid query", validation.ToDetails(err))
		return
	}
	q := catalog.NewQuery(req.Q, req.Category, req.Price)
	products := h.Svc.Search(c.Request.Context(), q)
	response.List(c, products, "products")
}

// Create POST /api/products (multipart)
func (h *ProductHandler) Create(c *gin.Context) {
	var form productForm
	if err := c.ShouldBind(&form); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	fields := map[string]string{}
	in := application.NewProduct{
		Name:          strings.TrimSpace(form.Name),
		Category:      strings.TrimSpace(form.Category),
		Type:          strings.TrimSpace(form.Type),
		ExistingImage: strings.TrimSpace(form.ExistingImage),
	}
	if strings.TrimSpace(string(form.Price)) == "" {
		fields["price"] = "is required"
	} else if p, err := entity.ParsePrice(string(form.Price)); err != nil {
		fields["price"] = "must be a number"
	} else {
		in.Price = p
	}
	if d, err := entity.ParsePercent(string(form.Discount)); err != nil {
		fields["discount"] = "must be a whole number"
	} else {
		in.Discount = d
	}
	if len(fields) > 0 {
		writeError(c, h.Logger, &application.ValidationError{Fields: fields})
		return
	}

	upload, closeFn, err := imageUpload(c)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	defer closeFn()

	p, err := h.Svc.Create(c.Request.Context(), in, upload)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, p, "product created", nil)
}

// Update PUT /api/products/:id (multipart, partial)
func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := h.productID(c)
	if !ok {
		return
	}
	var form productForm
	if err := c.ShouldBind(&form); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	patch, err := patchFromForm(form)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}

	upload, closeFn, err := imageUpload(c)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	defer closeFn()

	p, err := h.Svc.Update(c.Request.Context(), id, patch, upload, strings.TrimSpace(form.ExistingImage))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, p, "product updated", nil)
}

// Delete DELETE /api/products/:id
func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := h.productID(c)
	if !ok {
		return
	}
	if err := h.Svc.Delete(c.Request.Context(), id); err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"id": id}, "deleted successfully", nil)
}

func (h *ProductHandler) productID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "validation failed", map[string]string{"id": "must be an integer"})
		return 0, false
	}
	return id, true
}

// patchFromForm turns non-empty form values into present patch fields. A
// discount of "0" is a value, not an absent field.
func patchFromForm(form productForm) (entity.ProductPatch, error) {
	var patch entity.ProductPatch
	fields := map[string]string{}
	if v := strings.TrimSpace(form.Name); v != "" {
		patch.Name = &v
	}
	if v := strings.TrimSpace(string(form.Price)); v != "" {
		p, err := entity.ParsePrice(v)
		if err != nil {
			fields["price"] = "must be a number"
		} else {
			patch.Price = &p
		}
	}
	if v := strings.TrimSpace(string(form.Discount)); v != "" {
		d, err := entity.ParsePercent(v)
		if err != nil {
			fields["discount"] = "must be a whole number"
		} else {
			patch.Discount = &d
		}
	}
	if v := strings.TrimSpace(form.Category); v != "" {
		patch.Category = &v
	}
	if v := strings.TrimSpace(form.Type); v != "" {
		patch.Type = &v
	}
	if len(fields) > 0 {
		return entity.ProductPatch{}, &application.ValidationError{Fields: fields}
	}
	return patch, nil
}

// imageUpload opens the optional "image" file. The returned close func is always safe to call.
func imageUpload(c *gin.Context) (*application.ImageUpload, func(), error) {
	noop := func() {}
	fh, err := c.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, noop, nil
		}
		return nil, noop, &application.ValidationError{Fields: map[string]string{"image": "could not be read"}}
	}
	f, err := fh.Open()
	if err != nil {
		return nil, noop, &application.ValidationError{Fields: map[string]string{"image": "could not be read"}}
	}
	return &application.ImageUpload{
		Filename:    fh.Filename,
		ContentType: contentType(fh),
		Body:        f,
	}, func() { _ = f.Close() }, nil
}

func contentType(fh *multipart.FileHeader) string {
	if ct := fh.Header.Get("Content-Type"); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
