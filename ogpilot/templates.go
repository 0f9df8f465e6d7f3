package ogpilot

import (
	"context"
	"fmt"
)

// Template identifies an OG Pilot image template.
type Template string

// Templates offered by the service. Every template accepts the core
// parameters; the listed keys are template specific.
const (
	TemplatePage      Template = "page"
	TemplateBlogPost  Template = "blog_post" // author_name, author_avatar_url, publish_date
	TemplatePodcast   Template = "podcast"   // episode_date
	TemplateProduct   Template = "product"   // unique_selling_point
	TemplateEvent     Template = "event"     // event_date, event_location
	TemplateBook      Template = "book"      // book_author, book_series_number, book_description, book_genre
	TemplateCompany   Template = "company"   // company_logo_url; image_url is ignored
	TemplatePortfolio Template = "portfolio"
)

// Templates lists every known template.
var Templates = []Template{
	TemplatePage,
	TemplateBlogPost,
	TemplatePodcast,
	TemplateProduct,
	TemplateEvent,
	TemplateBook,
	TemplateCompany,
	TemplatePortfolio,
}

// ParseTemplate returns the Template named s.
func ParseTemplate(s string) (Template, error) {
	for _, t := range Templates {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: unknown template %q", ErrInvalidArgument, s)
}

// withTemplate copies params with "template" forced to tmpl.
func withTemplate(tmpl Template, params Params) Params {
	out := make(Params, len(params)+1)
	for k, v := range params {
		if canonicalKey(k) != "template" {
			out[k] = v
		}
	}
	out["template"] = string(tmpl)
	return out
}

// CreateTemplateImage is CreateImage with the template forced to tmpl.
func (c *Client) CreateTemplateImage(ctx context.Context, tmpl Template, params Params, opts ...RequestOptions) string {
	return c.CreateImage(ctx, withTemplate(tmpl, params), opts...)
}

// CreateTemplateImageJSON is CreateImageJSON with the template forced to tmpl.
func (c *Client) CreateTemplateImageJSON(ctx context.Context, tmpl Template, params Params, opts ...RequestOptions) map[string]any {
	return c.CreateImageJSON(ctx, withTemplate(tmpl, params), opts...)
}

// CreateTemplateImage generates an image URL for tmpl with the global client.
func CreateTemplateImage(ctx context.Context, tmpl Template, params Params, opts ...RequestOptions) string {
	return CreateImage(ctx, withTemplate(tmpl, params), opts...)
}

// CreateTemplateImageJSON fetches metadata for tmpl with the global client.
func CreateTemplateImageJSON(ctx context.Context, tmpl Template, params Params, opts ...RequestOptions) map[string]any {
	return CreateImageJSON(ctx, withTemplate(tmpl, params), opts...)
}
