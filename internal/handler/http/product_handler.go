package http

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/vasiliy-maslov/ecommerce-admin/internal/catalog"
)

const (
	maxUploadSize = 10 << 20
	maxImageSize  = 8 << 20
)

const imageTooLargeMessage = "Product Image must be at most 8 MB"

var errImageTooLarge = errors.New("product image exceeds upload limit")

type productFormView struct {
	Open        bool
	Name        string
	Description string
	Price       string
	Stocks      string
}

type productsView struct {
	Query    string
	Products []catalog.Product
	Create   productFormView
}

func (d *Dashboard) handleListProducts(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("reload") == "1" {
		if err := d.products.Reload(r.Context()); err != nil {
			log.Error().Err(err).Msg("Failed to reload products")
		}
	}
	d.renderProducts(w, r, http.StatusOK, "", productFormView{})
}

func (d *Dashboard) renderProducts(w http.ResponseWriter, r *http.Request, status int, notification string, create productFormView) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))

	products, err := d.products.ListProducts(r.Context(), query)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list products via service")
		products = []catalog.Product{}
	}

	p := d.page("Products", navProducts, productsView{Query: query, Products: products, Create: create})
	p.Notification = notification
	d.views.render(w, status, "products.html", p)
}

func (d *Dashboard) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	form, view, err := parseProductForm(r)
	if err != nil {
		view.Open = true
		d.formRejected(w, r, err, view)
		return
	}

	created, err := d.products.CreateProduct(r.Context(), form)
	if err != nil {
		view.Open = true
		d.productFailed(w, r, err, view)
		return
	}

	log.Info().Str("product_id", created.ID).Msg("Product created via dashboard")
	http.Redirect(w, r, "/products", http.StatusSeeOther)
}

func (d *Dashboard) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	form, _, err := parseProductForm(r)
	if err != nil {
		d.formRejected(w, r, err, productFormView{})
		return
	}

	if _, err := d.products.UpdateProduct(r.Context(), id, form); err != nil {
		d.productFailed(w, r, err, productFormView{})
		return
	}

	http.Redirect(w, r, "/products", http.StatusSeeOther)
}

func (d *Dashboard) handleConfirmDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	product, err := d.products.GetProduct(r.Context(), id)
	if err != nil {
		log.Warn().Err(err).Str("product_id", id).Msg("Failed to get product for delete confirmation")
		d.renderProducts(w, r, mapErrorToStatusCode(err), "", productFormView{})
		return
	}

	d.views.render(w, http.StatusOK, "product_delete.html", d.page("Delete product", navProducts, product))
}

func (d *Dashboard) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := d.products.DeleteProduct(r.Context(), id); err != nil {
		log.Error().Err(err).Str("product_id", id).Msg("Failed to delete product via service")
		d.renderProducts(w, r, mapErrorToStatusCode(err), "", productFormView{})
		return
	}

	http.Redirect(w, r, "/products", http.StatusSeeOther)
}

// formRejected answers a form that could not be read at all.
func (d *Dashboard) formRejected(w http.ResponseWriter, r *http.Request, err error, view productFormView) {
	log.Warn().Err(err).Msg("Failed to parse product form")
	if errors.Is(err, errImageTooLarge) {
		d.renderProducts(w, r, http.StatusUnprocessableEntity, imageTooLargeMessage, view)
		return
	}
	d.renderProducts(w, r, http.StatusBadRequest, "Invalid product form", view)
}

// productFailed shows validation messages to the admin. Anything else is only
// logged and the page is rendered with what the catalog still holds.
func (d *Dashboard) productFailed(w http.ResponseWriter, r *http.Request, err error, view productFormView) {
	var validationErr *catalog.ValidationError
	if errors.As(err, &validationErr) {
		d.renderProducts(w, r, http.StatusUnprocessableEntity, validationErr.Message, view)
		return
	}

	log.Error().Err(err).Msg("Failed to save product via service")
	d.renderProducts(w, r, mapErrorToStatusCode(err), "", view)
}

// parseProductForm reads a product form. Unparsable numbers become zero so
// the catalog's validation reports them with its usual messages.
func parseProductForm(r *http.Request) (catalog.ProductForm, productFormView, error) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return catalog.ProductForm{}, productFormView{}, fmt.Errorf("failed to parse multipart form: %w", err)
	}

	view := productFormView{
		Name:        strings.TrimSpace(r.FormValue("productName")),
		Description: strings.TrimSpace(r.FormValue("description")),
		Price:       strings.TrimSpace(r.FormValue("price")),
		Stocks:      strings.TrimSpace(r.FormValue("stocks")),
	}

	form := catalog.ProductForm{
		Name:        view.Name,
		Description: view.Description,
	}
	if price, err := decimal.NewFromString(view.Price); err == nil {
		form.Price = price
	}
	if stocks, err := strconv.Atoi(view.Stocks); err == nil {
		form.Stocks = stocks
	}

	image, err := readImage(r)
	if err != nil {
		return catalog.ProductForm{}, view, err
	}
	form.Image = image

	return form, view, nil
}

func readImage(r *http.Request) (*catalog.Image, error) {
	file, header, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	defer file.Close()

	if header.Size > maxImageSize {
		return nil, errImageTooLarge
	}

	// One byte past the limit tells an oversized part from one that fits.
	data, err := io.ReadAll(io.LimitReader(file, maxImageSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	if len(data) > maxImageSize {
		return nil, errImageTooLarge
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	return &catalog.Image{
		Filename:    header.Filename,
		ContentType: contentType,
		Data:        data,
	}, nil
}
