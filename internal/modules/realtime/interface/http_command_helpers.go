package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"qrMenu/internal/modules/realtime/application/usecase"
	domain "qrMenu/internal/modules/realtime/domain"
	"qrMenu/internal/modules/realtime/infrastructure"
)

// newMenuCommandHandler serves the commands a menu viewer may send besides subscribe and ping.
// "filter" answers with a filtered snapshot; "refresh" answers with the latest menu.
func newMenuCommandHandler(feed *usecase.MenuFeedUseCase, slug string, logger *zap.Logger) infrastructure.CommandHandler {
	return func(ctx context.Context, client *infrastructure.Client, cmd infrastructure.Command) {
		action := strings.ToLower(strings.TrimSpace(cmd.Action))
		switch action {
		case "filter", "refresh":
			payload, err := decodeCommand[domain.FilterCommand](cmd.Payload)
			if err != nil {
				logger.Warn("ws filter payload decode failed", zap.String("slug", slug), zap.Error(err))
				sendCommandError(client, action, "invalid payload")
				return
			}
			if action == "refresh" {
				payload = domain.FilterCommand{}
			}
			message, err := feed.Snapshot(ctx, slug, payload)
			if err != nil {
				logger.Warn("ws snapshot failed", zap.String("slug", slug), zap.String("action", action), zap.Error(err))
				sendCommandError(client, action, errorMapper.Map(err).Message)
				return
			}
			client.SendDomainMessage(message)
		default:
			logger.Debug("ws unknown action", zap.String("slug", slug), zap.String("action", cmd.Action))
			sendCommandError(client, "unknown", "unsupported action")
		}
	}
}

func sendCommandError(client *infrastructure.Client, action, reason string) {
	client.SendDomainMessage(domain.BuildErrorMessage(action, reason, time.Now()))
}

func decodeCommand[T any](raw json.RawMessage) (T, error) {
	var payload T
	if len(raw) == 0 {
		return payload, nil
	}
	return payload, json.Unmarshal(raw, &payload)
}

// filterFromQuery reads q, category, tags, min, max, available, popular, sort and dir. Tags may
// be repeated or comma separated.
func filterFromQuery(values url.Values) (domain.FilterCommand, error) {
	cmd := domain.FilterCommand{
		Query:    values.Get("q"),
		Category: values.Get("category"),
		Sort:     values.Get("sort"),
		Dir:      values.Get("dir"),
	}
	for _, raw := range values["tags"] {
		for _, tag := range strings.Split(raw, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				cmd.Tags = append(cmd.Tags, tag)
			}
		}
	}
	var err error
	if cmd.Min, err = parseFloatParam(values, "min"); err != nil {
		return domain.FilterCommand{}, err
	}
	if cmd.Max, err = parseFloatParam(values, "max"); err != nil {
		return domain.FilterCommand{}, err
	}
	if cmd.Available, err = parseBoolParam(values, "available"); err != nil {
		return domain.FilterCommand{}, err
	}
	if cmd.Popular, err = parseBoolParam(values, "popular"); err != nil {
		return domain.FilterCommand{}, err
	}
	return cmd, nil
}

func parseFloatParam(values url.Values, key string) (*float64, error) {
	raw := strings.TrimSpace(values.Get(key))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 || math.IsNaN(v) {
		return nil, fmt.Errorf("%w: %s must be a non-negative number", domain.ErrInvalidFilter, key)
	}
	return &v, nil
}

func parseBoolParam(values url.Values, key string) (*bool, error) {
	raw := strings.TrimSpace(values.Get(key))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be true or false", domain.ErrInvalidFilter, key)
	}
	return &v, nil
}
