package app

import (
	"time"

	"github.com/okothm/tutorledger-backend/internal/pkg/envutil"
	"github.com/okothm/tutorledger-backend/internal/pkg/logger"
)

type Config struct {
	ServiceName     string
	Environment     string
	Version         string
	JWTSecretKey    string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	MediaDir        string
}

func LoadConfig(log *logger.Logger) Config {
	jwtSecretKey := envutil.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	accessTokenTTLSeconds := envutil.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
	refreshTokenTTLSeconds := envutil.GetEnvAsInt("REFRESH_TOKEN_TTL", 86400, log)
	return Config{
		ServiceName:     envutil.GetEnv("SERVICE_NAME", "tutorledger", log),
		Environment:     envutil.GetEnv("ENVIRONMENT", "development", log),
		Version:         envutil.GetEnv("SERVICE_VERSION", "dev", log),
		JWTSecretKey:    jwtSecretKey,
		AccessTokenTTL:  time.Duration(accessTokenTTLSeconds) * time.Second,
		RefreshTokenTTL: time.Duration(refreshTokenTTLSeconds) * time.Second,
		MediaDir:        envutil.GetEnv("MEDIA_DIR", "", log),
	}
}
