package service

import (
	"context"
	"fmt"
	"strings"

	catalogdomain "github.com/druckhaus/storefront/internal/catalog/domain"
	"github.com/druckhaus/storefront/internal/clock"
	"github.com/druckhaus/storefront/internal/config"
	inquirydomain "github.com/druckhaus/storefront/internal/inquiry/domain"
	"github.com/druckhaus/storefront/internal/providers/slack"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	Clock   clock.Clock
	GenID   *snowflake.Node
	Config  config.Config
	Repo    inquirydomain.Repository
	Catalog catalogdomain.Service
	Slack   slack.Provider
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	clock   clock.Clock
	genID   *snowflake.Node
	channel string
	repo    inquirydomain.Repository
	catalog catalogdomain.Service
	slack   slack.Provider
}

func New(p Params) inquirydomain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("inquiry.service"),
		clock:   p.Clock,
		genID:   p.GenID,
		channel: p.Config.SlackInquiryChannel,
		repo:    p.Repo,
		catalog: p.Catalog,
		slack:   p.Slack,
	}
}

func (s *Service) Create(ctx context.Context, req inquirydomain.CreateRequest) (*inquirydomain.Inquiry, error) {
	name := strings.TrimSpace(req.Name)
	email := strings.TrimSpace(req.Email)
	if name == "" || email == "" || !strings.Contains(email, "@") {
		return nil, inquirydomain.ErrInvalidInquiry
	}

	productID, err := snowflake.ParseString(strings.TrimSpace(req.ProductID))
	if err != nil {
		return nil, catalogdomain.ErrProductNotFound
	}
	product, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	inquiry := &inquirydomain.Inquiry{
		ID:        s.genID.Generate(),
		ProductID: product.ID,
		Name:      name,
		Email:     email,
		Message:   strings.TrimSpace(req.Message),
		Params:    req.Params,
		Status:    inquirydomain.StatusNew,
		CreatedAt: s.clock.Now(),
	}
	if err := s.repo.Insert(ctx, s.db, inquiry); err != nil {
		return nil, err
	}

	// Notification failures must not lose the stored inquiry.
	message := fmt.Sprintf("New quote request for %q from %s <%s>", product.Name, name, email)
	if err := s.slack.PostMessage(ctx, s.channel, message); err != nil {
		s.log.Warn("inquiry notification failed",
			zap.String("inquiry_id", inquiry.ID.String()),
			zap.Error(err),
		)
	}

	s.log.Info("inquiry created",
		zap.String("inquiry_id", inquiry.ID.String()),
		zap.String("product_id", product.ID.String()),
	)
	return inquiry, nil
}
