package validation

import (
	"testing"

	domainerrors "github.com/assetbayapp/assetbay-server/internal/errors"
)

type createRequest struct {
	Title  string `json:"title" validate:"required,min=1,max=200"`
	Slug   string `json:"slug" validate:"omitempty,slug"`
	Status string `json:"status" validate:"omitempty,status"`
	Email  string `json:"email" validate:"omitempty,email"`
}

func TestValidatePasses(t *testing.T) {
	v := New()
	err := v.Validate(createRequest{
		Title:  "Forest Pack",
		Slug:   "forest-pack",
		Status: "published",
	})
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestValidateCollectsFieldErrors(t *testing.T) {
	v := New()
	err := v.Validate(createRequest{
		Slug:   "Not A Slug!",
		Status: "live",
		Email:  "not-an-email",
	})
	if err == nil {
		t.Fatal("expected validation error")
	}

	var domainErr *domainerrors.Error
	if !domainerrors.As(err, &domainErr) {
		t.Fatalf("expected *errors.Error, got %T", err)
	}
	if domainErr.Code != domainerrors.CodeValidation {
		t.Errorf("Code: got %s", domainErr.Code)
	}

	details, ok := domainErr.Details.(map[string]string)
	if !ok {
		t.Fatalf("Details: got %T", domainErr.Details)
	}
	for _, field := range []string{"title", "slug", "status", "email"} {
		if _, ok := details[field]; !ok {
			t.Errorf("missing detail for field %q: %v", field, details)
		}
	}
}

func TestValidateUsesJSONTagNames(t *testing.T) {
	v := New()
	err := v.Validate(createRequest{})
	if err == nil {
		t.Fatal("expected validation error")
	}

	var domainErr *domainerrors.Error
	if !domainerrors.As(err, &domainErr) {
		t.Fatalf("expected *errors.Error, got %T", err)
	}
	details := domainErr.Details.(map[string]string)
	if _, ok := details["title"]; !ok {
		t.Errorf("expected json tag name 'title' in details, got %v", details)
	}
	if _, ok := details["Title"]; ok {
		t.Errorf("struct field name leaked into details: %v", details)
	}
}
