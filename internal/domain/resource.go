package domain

import (
	"fmt"
	"strings"
)

// ResourceKind is the closed set of records a notification or attachment can point at.
// The backend spells them as Laravel model classes; that spelling stays at the JSON edge.
type ResourceKind string

const (
	ResourceNone  ResourceKind = ""
	ResourceQuote ResourceKind = "quote"
	ResourceOrder ResourceKind = "order"
)

const (
	quoteModelClass = `App\Models\Quote`
	orderModelClass = `App\Models\Order`
)

func ParseResourceKind(s string) (ResourceKind, error) {
	v := strings.TrimSpace(s)
	if i := strings.LastIndex(v, `\`); i >= 0 {
		v = v[i+1:]
	}
	switch strings.ToLower(v) {
	case "":
		return ResourceNone, nil
	case "quote":
		return ResourceQuote, nil
	case "order":
		return ResourceOrder, nil
	}
	return ResourceNone, fmt.Errorf("unknown resource type %q", s)
}

// ModelClass is the backend spelling of the kind.
func (k ResourceKind) ModelClass() string {
	switch k {
	case ResourceQuote:
		return quoteModelClass
	case ResourceOrder:
		return orderModelClass
	case ResourceNone:
		return ""
	}
	return ""
}

func (k ResourceKind) MarshalText() ([]byte, error) {
	return []byte(k.ModelClass()), nil
}

func (k *ResourceKind) UnmarshalText(b []byte) error {
	parsed, err := ParseResourceKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Ref is a typed pointer to a quote or an order.
type Ref struct {
	Kind ResourceKind
	ID   int64
}

// Path is the page showing the referenced record for the given role.
func (r Ref) Path(role Role) string {
	var area string
	switch role {
	case RoleAdmin:
		area = "/admin"
	case RoleController:
		area = "/controller"
	case RoleClient:
		area = "/client"
	default:
		area = "/client"
	}
	switch r.Kind {
	case ResourceQuote:
		return fmt.Sprintf("%s/quotes/%d", area, r.ID)
	case ResourceOrder:
		return fmt.Sprintf("%s/orders/%d", area, r.ID)
	case ResourceNone:
		return ""
	}
	return ""
}
