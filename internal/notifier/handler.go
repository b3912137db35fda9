// Package notifier announces newly listed BOOTH items.
package notifier

import (
	"context"
	"fmt"

	"github.com/aws/aws-xray-sdk-go/xray"
	"github.com/sirupsen/logrus"

	"github.com/30Piraten/notify-booth-update/config"
	"github.com/30Piraten/notify-booth-update/internal/booth"
	"github.com/30Piraten/notify-booth-update/internal/logging"
	"github.com/30Piraten/notify-booth-update/internal/notification"
	"github.com/30Piraten/notify-booth-update/internal/store"
)

// URLStore persists the URLs already announced.
type URLStore interface {
	Load(ctx context.Context) ([]string, error)
	Save(ctx context.Context, urls []string) error
}

// ItemLister lists the item URLs of a shop.
type ItemLister interface {
	ItemURLs(ctx context.Context, shopURL string) ([]string, error)
}

// Decrypter turns an encrypted environment value back into plaintext.
type Decrypter interface {
	Decrypt(ctx context.Context, encoded string) (string, error)
}

// Handler runs one poll of the shop page.
type Handler struct {
	cfg       *config.Notifier
	store     URLStore
	lister    ItemLister
	decrypter Decrypter
	poster    notification.Poster
	logger    logrus.FieldLogger
}

func NewHandler(cfg *config.Notifier, st URLStore, lister ItemLister, decrypter Decrypter, poster notification.Poster, logger logrus.FieldLogger) *Handler {
	return &Handler{
		cfg:       cfg,
		store:     st,
		lister:    lister,
		decrypter: decrypter,
		poster:    poster,
		logger:    logging.OrStandard(logger),
	}
}

// Handle is the Lambda entry point. Failures are logged at error level,
// which is what the stack's metric filter counts.
func (h *Handler) Handle(ctx context.Context) (err error) {
	defer func() {
		if err != nil {
			h.logger.WithError(err).Error("poll failed")
		}
	}()

	known, err := h.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("get known urls: %w", err)
	}
	known = booth.NormalizeURLs(known)

	current, err := h.itemURLs(ctx)
	if err != nil {
		return fmt.Errorf("get current urls: %w", err)
	}

	h.logger.WithFields(logrus.Fields{
		"known":   known,
		"current": current,
	}).Info("urls")

	newURLs := booth.NewURLs(known, current)
	if len(newURLs) > 0 {
		if err := h.announce(ctx, newURLs); err != nil {
			return fmt.Errorf("post slack: %w", err)
		}
		if err := h.store.Save(ctx, store.Merge(known, current)); err != nil {
			return fmt.Errorf("put current urls: %w", err)
		}
	}

	h.logger.WithFields(logrus.Fields{
		"known": known,
		"new":   newURLs,
	}).Info("result")
	return nil
}

// itemURLs scrapes the shop page inside its own trace subsegment.
func (h *Handler) itemURLs(ctx context.Context) (urls []string, err error) {
	ctx, seg := xray.BeginSubsegment(ctx, fmt.Sprintf("get item urls from %s", h.cfg.BoothURL))
	defer func() { seg.Close(err) }()

	return h.lister.ItemURLs(ctx, h.cfg.BoothURL)
}

func (h *Handler) announce(ctx context.Context, newURLs []string) error {
	channel, err := h.decrypter.Decrypt(ctx, h.cfg.EncryptedSlackChannel)
	if err != nil {
		return fmt.Errorf("decrypt slack channel: %w", err)
	}
	webhookURL, err := h.decrypter.Decrypt(ctx, h.cfg.EncryptedSlackURL)
	if err != nil {
		return fmt.Errorf("decrypt slack url: %w", err)
	}

	return h.poster.Post(ctx, webhookURL, channel, notification.FormatMessage(h.cfg.BoothURL, newURLs))
}
