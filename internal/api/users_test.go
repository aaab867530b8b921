package api

import (
	"fmt"
	"net/http"
	"testing"
)

// ─── Admin Signup Tests ────────────────────────────────────────────

func TestCreateAdmin(t *testing.T) {
	srv := testServer(t)
	router := srv.buildRouter()

	body := `{"name": "Ada Farms", "email": "ada@example.com", "phone_number": "08011111111", "password": "secret-pass"}`
	w := doJSON(t, router, http.MethodPost, "/api/v1/users", body, "")

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body: %s", w.Code, w.Body.String())
	}

	resp := envelope(t, w)
	if resp["message"] != "User created successfully" {
		t.Errorf("message = %v, want User created successfully", resp["message"])
	}

	data := resp["data"].(map[string]any)
	if data["type"] != "admin" {
		t.Errorf("type = %v, want admin", data["type"])
	}
	if _, leaked := data["password_hash"]; leaked {
		t.Error("password hash must never appear in responses")
	}
}

func TestCreateAdmin_DuplicateEmail(t *testing.T) {
	srv := testServer(t)
	router := srv.buildRouter()
	signupAdmin(t, router, "ada@example.com")

	body := `{"name": "Ada Again", "email": "ada@example.com", "password": "secret-pass"}`
	w := doJSON(t, router, http.MethodPost, "/api/v1/users", body, "")

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
	if msg := envelope(t, w)["message"]; msg != "Email already exists" {
		t.Errorf("message = %v, want Email already exists", msg)
	}
}

func TestCreateAdmin_MissingFields(t *testing.T) {
	srv := testServer(t)
	router := srv.buildRouter()

	w := doJSON(t, router, http.MethodPost, "/api/v1/users", `{"name": "No Email"}`, "")

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

// ─── Customer Creation Tests ───────────────────────────────────────

func TestCreateCustomer(t *testing.T) {
	srv := testServer(t)
	router := srv.buildRouter()
	signupAdmin(t, router, "owner@example.com")
	access, _ := loginAdmin(t, router, "owner@example.com")

	body := `{"name": "Farm Hand", "email": "hand@example.com", "phone_number": "08022222222", "spm_id": "spm-100"}`
	w := doJSON(t, router, http.MethodPost, "/api/v1/users/customers", body, access)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body: %s", w.Code, w.Body.String())
	}

	data := envelope(t, w)["data"].(map[string]any)
	if data["type"] != "customer" {
		t.Errorf("type = %v, want customer", data["type"])
	}
	if data["spm_id"] != "spm-100" {
		t.Errorf("spm_id = %v, want spm-100", data["spm_id"])
	}

	// The generated starter password is disclosed exactly once, here
	password, ok := data["password"].(string)
	if !ok || len(password) != 12 {
		t.Fatalf("password = %v, want a 12-character starter password", data["password"])
	}

	login := `{"email": "hand@example.com", "password": "` + password + `", "user_type": "customer"}`
	if w := doJSON(t, router, http.MethodPost, "/api/v1/auth/login", login, ""); w.Code != http.StatusOK {
		t.Errorf("starter password login status = %d, body: %s", w.Code, w.Body.String())
	}
}

func TestCreateCustomer_RequiresAuth(t *testing.T) {
	srv := testServer(t)
	router := srv.buildRouter()

	body := `{"name": "Farm Hand", "email": "hand@example.com", "spm_id": "spm-100"}`
	w := doJSON(t, router, http.MethodPost, "/api/v1/users/customers", body, "")

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestCreateCustomer_CustomerForbidden(t *testing.T) {
	srv := testServer(t)
	router := srv.buildRouter()
	signupAdmin(t, router, "owner@example.com")
	access, _ := loginAdmin(t, router, "owner@example.com")

	body := `{"name": "Farm Hand", "email": "hand@example.com", "spm_id": "spm-100"}`
	w := doJSON(t, router, http.MethodPost, "/api/v1/users/customers", body, access)
	if w.Code != http.StatusCreated {
		t.Fatalf("seed customer status = %d, body: %s", w.Code, w.Body.String())
	}
	password := envelope(t, w)["data"].(map[string]any)["password"].(string)

	login := `{"email": "hand@example.com", "password": "` + password + `", "user_type": "customer"}`
	lw := doJSON(t, router, http.MethodPost, "/api/v1/auth/login", login, "")
	if lw.Code != http.StatusOK {
		t.Fatalf("customer login status = %d, body: %s", lw.Code, lw.Body.String())
	}
	customerAccess := envelope(t, lw)["data"].(map[string]any)["access_token"].(string)

	body = `{"name": "Another Hand", "email": "hand2@example.com", "spm_id": "spm-101"}`
	w = doJSON(t, router, http.MethodPost, "/api/v1/users/customers", body, customerAccess)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("customer creating customer status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestCreateCustomer_Limit(t *testing.T) {
	srv := testServer(t)
	router := srv.buildRouter()
	signupAdmin(t, router, "owner@example.com")
	access, _ := loginAdmin(t, router, "owner@example.com")

	for i := 0; i < 5; i++ {
		body := fmt.Sprintf(`{"name": "Hand %d", "email": "hand%d@example.com", "spm_id": "spm-%d"}`, i, i, i)
		if w := doJSON(t, router, http.MethodPost, "/api/v1/users/customers", body, access); w.Code != http.StatusCreated {
			t.Fatalf("customer %d status = %d, body: %s", i, w.Code, w.Body.String())
		}
	}

	body := `{"name": "One Too Many", "email": "overflow@example.com", "spm_id": "spm-999"}`
	w := doJSON(t, router, http.MethodPost, "/api/v1/users/customers", body, access)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
	if msg := envelope(t, w)["message"]; msg != "Maximum number of customers has been created" {
		t.Errorf("message = %v, want Maximum number of customers has been created", msg)
	}
}
