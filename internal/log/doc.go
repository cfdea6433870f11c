// Package log provides logging with automatic sanitization of request
// credentials, built on top of the standard slog package.
//
// The harvester sends a CSRF token with every module connector request and
// mirrors it in a cookie. The SecureHandler masks these values in log output
// so that verbose logs can be shared without leaking request state:
//   - HTTP headers (Authorization, Cookie, Set-Cookie)
//   - Token attributes, including wikidot_token7
//   - Values matching common credential patterns
//
// # Usage
//
//	logger := log.NewSecureLogger(os.Stderr, true) // verbose=true
//
//	logger.Info("request sent",
//	    "cookie", "wikidot_token7=abc123",  // masked in output
//	    "url", "https://scp-wiki.wikidot.com",
//	)
//
//	slog.SetDefault(logger)
package log
