package remote

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/doshub/portal-backend/internal/content"
	contentHttp "github.com/doshub/portal-backend/internal/content/http"
	"github.com/doshub/portal-backend/internal/pkg/response"
)

func adminPath(c content.Collection, id string) string {
	p := "/v1/admin/" + url.PathEscape(string(c))
	if id != "" {
		p += "/" + url.PathEscape(id)
	}
	return p
}

func (c *Client) List(ctx context.Context, col content.Collection, order content.Order) ([]*content.Item, error) {
	if !col.Valid() {
		return nil, fmt.Errorf("%w: %q", content.ErrUnknownCollection, col)
	}

	q := url.Values{}
	q.Set("sort_by", string(order.Field))
	if order.Desc {
		q.Set("order", "desc")
	} else {
		q.Set("order", "asc")
	}

	var out response.ListResponse[contentHttp.ItemResponse]
	if err := c.do(ctx, http.MethodGet, adminPath(col, "")+"?"+q.Encode(), c.token(), nil, &out); err != nil {
		return nil, c.contentError("list "+string(col), err)
	}

	items := make([]*content.Item, len(out.Items))
	for i, r := range out.Items {
		items[i] = r.Item()
	}
	return items, nil
}

func (c *Client) Get(ctx context.Context, col content.Collection, id string) (*content.Item, error) {
	if !col.Valid() {
		return nil, fmt.Errorf("%w: %q", content.ErrUnknownCollection, col)
	}
	if uuid.Validate(id) != nil {
		return nil, content.ErrNotFound
	}

	var out contentHttp.ItemResponse
	if err := c.do(ctx, http.MethodGet, adminPath(col, id), c.token(), nil, &out); err != nil {
		return nil, c.contentError("get "+string(col), err)
	}
	return out.Item(), nil
}

func (c *Client) Create(ctx context.Context, col content.Collection, f content.Fields) (string, error) {
	if !col.Valid() {
		return "", fmt.Errorf("%w: %q", content.ErrUnknownCollection, col)
	}

	var out contentHttp.ItemResponse
	if err := c.do(ctx, http.MethodPost, adminPath(col, ""), c.token(), contentHttp.NewCreateBody(f), &out); err != nil {
		return "", c.contentError("create "+string(col), err)
	}
	return out.ID, nil
}

func (c *Client) Update(ctx context.Context, col content.Collection, id string, p content.Patch) error {
	if !col.Valid() {
		return fmt.Errorf("%w: %q", content.ErrUnknownCollection, col)
	}
	if uuid.Validate(id) != nil {
		return content.ErrNotFound
	}

	if err := c.do(ctx, http.MethodPatch, adminPath(col, id), c.token(), contentHttp.NewUpdateBody(p), nil); err != nil {
		return c.contentError("update "+string(col), err)
	}
	return nil
}

func (c *Client) Delete(ctx context.Context, col content.Collection, id string) error {
	if !col.Valid() {
		return fmt.Errorf("%w: %q", content.ErrUnknownCollection, col)
	}
	if uuid.Validate(id) != nil {
		return content.ErrNotFound
	}

	if err := c.do(ctx, http.MethodDelete, adminPath(col, id), c.token(), nil, nil); err != nil {
		return c.contentError("delete "+string(col), err)
	}
	return nil
}

// contentError maps a failed admin request onto the content error taxonomy.
// Only 404 and 400 are distinguished; every other failure is a backend error.
func (c *Client) contentError(op string, err error) error {
	switch statusOf(err) {
	case http.StatusNotFound:
		return content.ErrNotFound
	case http.StatusBadRequest:
		var se *statusError
		errors.As(err, &se)
		if len(se.Body.Fields) > 0 {
			fieldErrs := validation.Errors{}
			for field, msg := range se.Body.Fields {
				fieldErrs[field] = errors.New(msg)
			}
			return fmt.Errorf("%s failed: %w: %w", op, content.ErrInvalidFields, fieldErrs)
		}
		return fmt.Errorf("%s failed: %w: %w", op, content.ErrInvalidFields, err)
	case http.StatusUnauthorized:
		if c.onUnauthorized != nil {
			c.onUnauthorized()
		}
	}
	return fmt.Errorf("%s failed: %w: %w", op, content.ErrBackend, err)
}
