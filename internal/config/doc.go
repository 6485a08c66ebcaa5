// Package config loads bodyscale settings.
//
// # Resolution Order
//
//  1. Built-in defaults
//  2. ~/.config/bodyscale/config.toml, or the path passed to Load
//  3. A .env file in the working directory (variables already set win)
//  4. BODYSCALE_* environment variables
//
// A missing config file or .env is not an error.
//
// # TOML Format
//
//	host = "wbsapi.withings.net"
//	port = 80
//	proxy_host = ""
//	proxy_port = 80
//	user_id = 29
//	public_key = "b71d7e2ce8c8e4a3"
//	poll_seconds = 60
//	log_level = "info"
//	log_dir = "~/.local/share/bodyscale"
//
// # Environment
//
//	BODYSCALE_HOST, BODYSCALE_PORT, BODYSCALE_PROXY_HOST, BODYSCALE_PROXY_PORT,
//	BODYSCALE_USER_ID, BODYSCALE_PUBLIC_KEY, BODYSCALE_POLL_SECONDS,
//	BODYSCALE_LOG_LEVEL, BODYSCALE_LOG_DIR
//
// Tilde expansion is applied to the config path and log_dir.
//
// Passwords are never read from configuration; the users command takes them
// from BODYSCALE_PASSWORD or stdin at call time.
package config
