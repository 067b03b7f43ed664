package payment

import (
	"errors"
	"testing"

	"payflow/models"
)

func TestNormalizeCardNumber(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{name: "PlainDigits", raw: "4111111111111111", want: "4111111111111111"},
		{name: "SpacesStripped", raw: "4111 1111 1111 1111", want: "4111111111111111"},
		{name: "DashesStripped", raw: "4111-1111-1111-1111", want: "4111111111111111"},
		{name: "ThirteenDigits", raw: "4111111111111", want: "4111111111111"},
		{name: "NineteenDigits", raw: "4111111111111111111", want: "4111111111111111111"},
		{name: "TooShort", raw: "411111111111", wantErr: true},
		{name: "TooLong", raw: "41111111111111111111", wantErr: true},
		{name: "Letters", raw: "4111a11111111111", wantErr: true},
		{name: "Empty", raw: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeCardNumber(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.raw)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidateExpiry(t *testing.T) {
	tests := []struct {
		name    string
		expiry  string
		wantErr bool
	}{
		{name: "Valid", expiry: "12/30"},
		{name: "January", expiry: "01/27"},
		{name: "MonthZero", expiry: "00/27", wantErr: true},
		{name: "MonthThirteen", expiry: "13/27", wantErr: true},
		{name: "NoSlash", expiry: "1230", wantErr: true},
		{name: "ExtraParts", expiry: "12/30/01", wantErr: true},
		{name: "Letters", expiry: "ab/cd", wantErr: true},
		{name: "Empty", expiry: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateExpiry(tt.expiry)
			if tt.wantErr && err == nil {
				t.Fatalf("expected error for %q", tt.expiry)
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestValidateCVV(t *testing.T) {
	tests := []struct {
		name    string
		cvv     string
		wantErr bool
	}{
		{name: "ThreeDigits", cvv: "123"},
		{name: "FourDigits", cvv: "1234"},
		{name: "TwoDigits", cvv: "12", wantErr: true},
		{name: "FiveDigits", cvv: "12345", wantErr: true},
		{name: "Letters", cvv: "12a", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCVV(tt.cvv)
			if tt.wantErr && err == nil {
				t.Fatalf("expected error for %q", tt.cvv)
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestValidateCardDetailsFieldReasons(t *testing.T) {
	valid := models.CardDetails{
		CardNumber: "4111 1111 1111 1111",
		Expiry:     "12/30",
		CVV:        "123",
		HolderName: "Jane Doe",
	}

	cleaned, err := ValidateCardDetails(valid)
	if err != nil {
		t.Fatalf("valid card rejected: %v", err)
	}
	if cleaned != "4111111111111111" {
		t.Fatalf("expected normalized card number, got %q", cleaned)
	}

	bad := valid
	bad.HolderName = "   "
	_, err = ValidateCardDetails(bad)
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if ve.Field != "holder_name" {
		t.Fatalf("expected holder_name violation, got %q", ve.Field)
	}
}
