package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go-pos-inventory/internal/apperr"
	"go-pos-inventory/internal/auth"
	"go-pos-inventory/internal/cache"
	"go-pos-inventory/internal/events"
	"go-pos-inventory/pkg/logger"
	"go-pos-inventory/pkg/validator"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// validate runs the struct tags of a request and converts failures into a ValidationError
func validate(req interface{}) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return apperr.InvalidFields(errs)
	}
	return nil
}

func actorOf(identity *auth.Identity) *events.Actor {
	if identity == nil {
		return nil
	}
	return &events.Actor{ID: identity.UserID.String(), Name: identity.Name, Email: identity.Email}
}

func actorID(identity *auth.Identity) string {
	if identity == nil {
		return ""
	}
	return identity.UserID.String()
}

func actorName(identity *auth.Identity) string {
	if identity == nil || identity.Name == "" {
		return "Someone"
	}
	return identity.Name
}

// invalidate drops cached reads that depend on stock or sales
func invalidate(c cache.Cache, prefixes ...string) {
	if c == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	for _, prefix := range prefixes {
		if err := c.DeletePrefix(ctx, prefix); err != nil {
			logger.Get().Warn("cache invalidation failed", zap.String("prefix", prefix), zap.Error(err))
		}
	}
}

// documentNumber builds invoice and purchase references such as INV-20260105-1A2B3C4D
func documentNumber(prefix string, at time.Time) string {
	short := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
	return fmt.Sprintf("%s-%s-%s", prefix, at.Format("20060102"), short)
}

func userIDOf(identity *auth.Identity) uuid.UUID {
	if identity == nil {
		return uuid.Nil
	}
	return identity.UserID
}
