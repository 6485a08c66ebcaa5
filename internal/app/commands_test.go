package app

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/five82/bodyscale/internal/config"
	"github.com/five82/bodyscale/internal/withings"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestPrintMeasures_WritesIndentedJSON(t *testing.T) {
	svc := &fakeService{measResp: response(0, `{"measuregrps":[]}`)}
	var out bytes.Buffer

	q := withings.MeasureQuery{Limit: 5}
	if err := PrintMeasures(context.Background(), svc, Credentials{UserID: 29, PublicKey: "k"}, q, &out); err != nil {
		t.Fatalf("PrintMeasures returned error: %v", err)
	}
	if !strings.Contains(out.String(), "\n  \"status\": 0") {
		t.Fatalf("output = %q, want indented JSON", out.String())
	}
	if len(svc.queries) != 1 || svc.queries[0].Limit != 5 {
		t.Fatalf("queries = %+v, want limit passed through", svc.queries)
	}
}

func TestPrintUser_StatusErrorStillPrints(t *testing.T) {
	svc := &fakeService{userResp: response(247, `{}`)}
	var out bytes.Buffer

	err := PrintUser(context.Background(), svc, Credentials{UserID: 29, PublicKey: "k"}, &out)
	var statusErr *withings.StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("PrintUser error = %v, want StatusError", err)
	}
	if !strings.Contains(out.String(), "247") {
		t.Fatalf("output = %q, want payload printed", out.String())
	}
}

func TestPrintUsersList(t *testing.T) {
	svc := &fakeService{usersResp: response(0, `{"users":[]}`)}
	var out bytes.Buffer

	if err := PrintUsersList(context.Background(), svc, "a@b.com", "secret", &out); err != nil {
		t.Fatalf("PrintUsersList returned error: %v", err)
	}
	if svc.gotEmail != "a@b.com" || svc.gotPassword != "secret" {
		t.Fatalf("credentials passed = %q/%q", svc.gotEmail, svc.gotPassword)
	}
	if strings.Contains(out.String(), "secret") {
		t.Fatalf("output leaks the password: %q", out.String())
	}

	if err := PrintUsersList(context.Background(), svc, "", "secret", &out); err == nil {
		t.Fatalf("PrintUsersList accepted an empty email")
	}
	if err := PrintUsersList(context.Background(), svc, "a@b.com", "", &out); err == nil {
		t.Fatalf("PrintUsersList accepted an empty password")
	}
}

func TestPrintUsersList_PropagatesServiceUnavailable(t *testing.T) {
	svc := &fakeService{usersErr: withings.ErrServiceUnavailable}
	err := PrintUsersList(context.Background(), svc, "a@b.com", "secret", &bytes.Buffer{})
	if !errors.Is(err, withings.ErrServiceUnavailable) {
		t.Fatalf("error = %v, want ErrServiceUnavailable", err)
	}
}

func TestReadPassword(t *testing.T) {
	got, err := ReadPassword("from-env", strings.NewReader("ignored\n"))
	if err != nil || got != "from-env" {
		t.Fatalf("ReadPassword = %q, %v; want from-env", got, err)
	}
	got, err = ReadPassword("", strings.NewReader("s3cret\r\nnext\n"))
	if err != nil || got != "s3cret" {
		t.Fatalf("ReadPassword = %q, %v; want s3cret", got, err)
	}
	got, err = ReadPassword("", strings.NewReader("no-newline"))
	if err != nil || got != "no-newline" {
		t.Fatalf("ReadPassword = %q, %v; want no-newline", got, err)
	}
	if _, err := ReadPassword("", strings.NewReader("")); err == nil {
		t.Fatalf("ReadPassword on empty input returned nil error")
	}
}

func TestParseTime(t *testing.T) {
	if got, err := ParseTime(""); err != nil || !got.IsZero() {
		t.Fatalf("ParseTime(\"\") = %v, %v; want zero", got, err)
	}
	if got, err := ParseTime("1222819200"); err != nil || got.Unix() != 1222819200 {
		t.Fatalf("ParseTime(unix) = %v, %v", got, err)
	}
	got, err := ParseTime("2025-03-04")
	if err != nil || got.Year() != 2025 || got.Month() != time.March || got.Day() != 4 {
		t.Fatalf("ParseTime(date) = %v, %v", got, err)
	}
	if got, err := ParseTime("2025-03-04T10:00:00Z"); err != nil || got.Hour() != 10 {
		t.Fatalf("ParseTime(rfc3339) = %v, %v", got, err)
	}
	if _, err := ParseTime("yesterday"); err == nil {
		t.Fatalf("ParseTime(yesterday) returned nil error")
	}
}

func TestEnvCredentials(t *testing.T) {
	env := &Env{Config: config.Config{UserID: 29, PublicKey: "cfg-key"}}

	creds, err := env.Credentials(0, "")
	if err != nil || creds.UserID != 29 || creds.PublicKey != "cfg-key" {
		t.Fatalf("Credentials = %+v, %v; want config values", creds, err)
	}
	creds, err = env.Credentials(7, " flag-key ")
	if err != nil || creds.UserID != 7 || creds.PublicKey != "flag-key" {
		t.Fatalf("Credentials = %+v, %v; want overrides", creds, err)
	}
	if _, err := (&Env{}).Credentials(0, ""); err == nil {
		t.Fatalf("Credentials without config returned nil error")
	}
}
