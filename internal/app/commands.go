package app

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/five82/bodyscale/internal/config"
	"github.com/five82/bodyscale/internal/logging"
	"github.com/five82/bodyscale/internal/withings"
)

// Env bundles what the one-shot commands need.
type Env struct {
	Config config.Config
	Logger *slog.Logger
	Client *withings.Client
}

// NewEnv loads config and builds a logger writing to logOut and a client.
func NewEnv(configPath string, logOut io.Writer) (*Env, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	logger := logging.New(logOut, level, true)
	client, err := newClient(cfg, logger)
	if err != nil {
		return nil, err
	}
	return &Env{Config: cfg, Logger: logger, Client: client}, nil
}

// Credentials returns the configured credentials with non-empty overrides applied.
func (e *Env) Credentials(userID int64, publicKey string) (Credentials, error) {
	creds := Credentials{UserID: e.Config.UserID, PublicKey: e.Config.PublicKey}
	if userID > 0 {
		creds.UserID = userID
	}
	if key := strings.TrimSpace(publicKey); key != "" {
		creds.PublicKey = key
	}
	if creds.UserID <= 0 || creds.PublicKey == "" {
		return Credentials{}, errMissingCredentials
	}
	return creds, nil
}

var errMissingCredentials = errors.New("user id and public key required (set user_id/public_key, BODYSCALE_USER_ID/BODYSCALE_PUBLIC_KEY, or pass -user/-key)")

func newClient(cfg config.Config, logger *slog.Logger) (*withings.Client, error) {
	client, err := withings.NewClient(withings.Options{
		Host:      cfg.Host,
		Port:      cfg.Port,
		ProxyHost: cfg.ProxyHost,
		ProxyPort: cfg.ProxyPort,
		Logger:    logger,
	})
	if err != nil {
		return nil, fmt.Errorf("init withings client: %w", err)
	}
	return client, nil
}

// PrintMeasures writes the getmeas response as indented JSON.
func PrintMeasures(ctx context.Context, client withings.Service, creds Credentials, query withings.MeasureQuery, w io.Writer) error {
	resp, err := client.GetMeasurements(ctx, creds.UserID, creds.PublicKey, query)
	if err != nil {
		return err
	}
	return writeResponse(w, resp)
}

// PrintUser writes the getbyuserid response as indented JSON.
func PrintUser(ctx context.Context, client withings.Service, creds Credentials, w io.Writer) error {
	resp, err := client.GetUserInfo(ctx, creds.UserID, creds.PublicKey)
	if err != nil {
		return err
	}
	return writeResponse(w, resp)
}

// PrintUsersList writes the getuserslist response as indented JSON.
func PrintUsersList(ctx context.Context, client withings.Service, email, password string, w io.Writer) error {
	if strings.TrimSpace(email) == "" {
		return errors.New("email required")
	}
	if password == "" {
		return errors.New("password required")
	}
	resp, err := client.GetUsersList(ctx, email, password)
	if err != nil {
		return err
	}
	return writeResponse(w, resp)
}

// writeResponse prints the payload and reports a non-zero service status.
func writeResponse(w io.Writer, resp *withings.Response) error {
	raw := []byte(resp.Raw)
	if len(raw) == 0 {
		var err error
		if raw, err = json.Marshal(resp); err != nil {
			return fmt.Errorf("encode response: %w", err)
		}
	}
	var out bytes.Buffer
	if err := json.Indent(&out, raw, "", "  "); err != nil {
		return fmt.Errorf("format response: %w", err)
	}
	out.WriteByte('\n')
	if _, err := w.Write(out.Bytes()); err != nil {
		return fmt.Errorf("write response: %w", err)
	}
	return resp.Err()
}

// ReadPassword returns envPassword when set, otherwise the first line of r.
func ReadPassword(envPassword string, r io.Reader) (string, error) {
	if envPassword != "" {
		return envPassword, nil
	}
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read password: %w", err)
	}
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return "", errors.New("password required (BODYSCALE_PASSWORD or stdin)")
	}
	return line, nil
}

// ParseTime accepts unix seconds, YYYY-MM-DD (local time) or RFC3339.
// An empty string yields the zero time.
func ParseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	if secs, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(secs, 0), nil
	}
	if t, err := time.ParseInLocation(time.DateOnly, s, time.Local); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid time %q (want unix seconds, YYYY-MM-DD or RFC3339)", s)
}
