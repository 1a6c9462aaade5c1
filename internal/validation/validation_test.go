package validation

import (
	"testing"

	"edupath/internal/models"
	"edupath/internal/utils"
)

func TestRegisterRequestMessages(t *testing.T) {
	err := Struct(models.RegisterRequest{
		Email:    "not-an-email",
		Password: "12345",
		FullName: "A",
		Role:     "principal",
	})
	v, ok := utils.AsValidation(err)
	if !ok {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	want := map[string]string{
		"email":     "Please enter a valid email address",
		"password":  "Password must be at least 6 characters long",
		"full_name": "Full name must be at least 2 characters long",
		"role":      "Role must be one of student, parent, counselor, admin",
	}
	if len(v.Fields) != len(want) {
		t.Fatalf("expected %d fields, got %+v", len(want), v.Fields)
	}
	for field, msg := range want {
		got, ok := v.Field(field)
		if !ok || got != msg {
			t.Errorf("%s: got %q", field, got)
		}
	}
}

func TestPasswordRequiredUsesLengthMessage(t *testing.T) {
	err := Struct(models.LoginRequest{Email: "a@b.co"})
	v, ok := utils.AsValidation(err)
	if !ok {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if msg, _ := v.Field("password"); msg != "Password must be at least 6 characters long" {
		t.Fatalf("unexpected message %q", msg)
	}
}

func TestValidRequestPasses(t *testing.T) {
	err := Struct(models.RegisterRequest{
		Email:             "asha@example.com",
		Password:          "secret1",
		FullName:          "Asha Bhat",
		Role:              models.RoleStudent,
		PreferredLanguage: models.LangKashmiri,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
