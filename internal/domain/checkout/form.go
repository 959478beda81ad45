package checkout

import (
	"strings"
	"sync"
)

// BuyerInfo holds the contact and delivery details collected by the checkout
// form. It is ephemeral: held for the duration of an in-progress checkout
// and never persisted.
type BuyerInfo struct {
	Name         string
	Email        string
	Address      string
	ClientNumber string
}

// Field identifies one buyer info form field.
type Field string

const (
	FieldName         Field = "name"
	FieldEmail        Field = "email"
	FieldAddress      Field = "address"
	FieldClientNumber Field = "clientNumber"
)

// Fields lists all form fields in display order.
var Fields = []Field{FieldName, FieldEmail, FieldAddress, FieldClientNumber}

// Form is the checkout form controller. It collects buyer info field by
// field and gates checkout on all fields being present. Entered data is
// retained across failed attempts so the buyer can retry without retyping;
// Dismiss (on success) resets everything.
type Form struct {
	mu      sync.Mutex
	info    BuyerInfo
	visible bool
}

// NewForm creates an empty, hidden form.
func NewForm() *Form {
	return &Form{}
}

// Open makes the form visible. The caller is responsible for only opening it
// when the cart is non-empty.
func (f *Form) Open() {
	f.mu.Lock()
	f.visible = true
	f.mu.Unlock()
}

// Dismiss hides the form and clears all entered data. Called after a
// successful order submission.
func (f *Form) Dismiss() {
	f.mu.Lock()
	f.info = BuyerInfo{}
	f.visible = false
	f.mu.Unlock()
}

// Visible reports whether the form is currently shown.
func (f *Form) Visible() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.visible
}

// UpdateField sets the value of one field. Unknown fields are an error.
func (f *Form) UpdateField(field Field, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch field {
	case FieldName:
		f.info.Name = value
	case FieldEmail:
		f.info.Email = value
	case FieldAddress:
		f.info.Address = value
	case FieldClientNumber:
		f.info.ClientNumber = value
	default:
		return &UnknownFieldError{Field: field}
	}
	return nil
}

// Info returns a copy of the currently entered buyer info.
func (f *Form) Info() BuyerInfo {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.info
}

// Validate returns nil when every field is non-empty after trimming,
// otherwise a *ValidationError naming the missing fields. Checkout must not
// proceed while validation fails.
func (f *Form) Validate() error {
	info := f.Info()

	var missing []Field
	for _, field := range Fields {
		if strings.TrimSpace(info.field(field)) == "" {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return &ValidationError{Missing: missing}
	}
	return nil
}

func (b BuyerInfo) field(f Field) string {
	switch f {
	case FieldName:
		return b.Name
	case FieldEmail:
		return b.Email
	case FieldAddress:
		return b.Address
	case FieldClientNumber:
		return b.ClientNumber
	}
	return ""
}
