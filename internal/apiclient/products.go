package apiclient

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"

	"github.com/vasiliy-maslov/ecommerce-admin/internal/catalog"
)

func (c *Client) ListProducts(ctx context.Context) ([]catalog.Product, error) {
	var products []catalog.Product
	if err := c.doJSON(ctx, http.MethodGet, "/products", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *Client) CreateProduct(ctx context.Context, form catalog.ProductForm) (*catalog.Product, error) {
	return c.sendProductForm(ctx, http.MethodPost, "/products", form)
}

func (c *Client) UpdateProduct(ctx context.Context, id string, form catalog.ProductForm) (*catalog.Product, error) {
	return c.sendProductForm(ctx, http.MethodPatch, "/products/"+url.PathEscape(id), form)
}

func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/products/"+url.PathEscape(id), nil, nil)
}

func (c *Client) sendProductForm(ctx context.Context, method, path string, form catalog.ProductForm) (*catalog.Product, error) {
	body, contentType, err := encodeProductForm(form)
	if err != nil {
		return nil, fmt.Errorf("failed to encode product form: %w", err)
	}

	var product catalog.Product
	if err := c.do(ctx, method, path, body, contentType, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func encodeProductForm(form catalog.ProductForm) (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)

	fields := []struct{ name, value string }{
		{"productName", form.Name},
		{"description", form.Description},
		{"price", form.Price.String()},
		{"stocks", strconv.Itoa(form.Stocks)},
	}
	for _, f := range fields {
		if err := writer.WriteField(f.name, f.value); err != nil {
			return nil, "", err
		}
	}

	if form.HasImage() {
		contentType := form.Image.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename=%q`, form.Image.Filename))
		header.Set("Content-Type", contentType)

		part, err := writer.CreatePart(header)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(form.Image.Data); err != nil {
			return nil, "", err
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", err
	}
	return buf, writer.FormDataContentType(), nil
}
