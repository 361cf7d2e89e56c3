package imgsrc

import (
	"context"
	"strconv"
	"sync"
)

// CategoryDirectory holds the service's category tree.
//
// Categories are reference data: they are fetched on first use and reused for
// the lifetime of the directory. Share one directory where the list is needed
// rather than refetching.
type CategoryDirectory struct {
	root Transport

	mu         sync.Mutex
	categories map[string]Category
}

// NewCategoryDirectory creates a directory that fetches through client's root
// host. Categories do not require login.
func NewCategoryDirectory(client *Client) *CategoryDirectory {
	return &CategoryDirectory{root: client.root}
}

// Categories returns the category map keyed by category ID.
//
// The first successful call issues GET cli/cats.php; later calls return the
// cached map. A failed fetch is not cached.
func (d *CategoryDirectory) Categories(ctx context.Context) (map[string]Category, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.categories != nil {
		return d.categories, nil
	}

	resp, err := d.root.Get(ctx, pathCategories, nil)
	if err != nil {
		return nil, &Error{Kind: KindTransport, Message: "can not load categories", Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &Error{
			Kind:    KindTransport,
			Message: "categories: http status " + strconv.Itoa(resp.StatusCode),
			Body:    resp.Body,
		}
	}

	env, err := Validate(resp.Body)
	if err != nil {
		return nil, err
	}

	categories := make(map[string]Category, len(env.Categories))
	for _, node := range env.Categories {
		if node.ID == nil || *node.ID == "" {
			continue
		}
		categories[*node.ID] = Category{
			Name:     text(node.Name),
			ParentID: text(node.ParentID),
		}
	}
	d.categories = categories

	return categories, nil
}
