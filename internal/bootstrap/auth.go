package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/rosterd/rosterd/config"
	"github.com/rosterd/rosterd/internal/adapters/authjwt"
	"github.com/rosterd/rosterd/internal/ports"
)

// BuildTokenIssuer creates the bearer token issuer from auth configuration.
// Authentication is stateless: tokens are self-contained signed JWTs, so no
// session store backs them.
//
//nolint:ireturn // Returning the issuer port keeps callers off the concrete JWT type.
func BuildTokenIssuer(cfg config.AuthConfig, logger *slog.Logger) (ports.TokenIssuer, error) {
	issuer, err := authjwt.NewIssuer(cfg)
	if err != nil {
		return nil, fmt.Errorf("create token issuer: %w", err)
	}

	if logger != nil {
		logger.Info("token issuer configured", "algorithm", string(config.JWTAlgorithmHS256), "ttl", cfg.TokenTTL())
	}

	return issuer, nil
}
