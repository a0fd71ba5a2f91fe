package services

import (
	"context"
	"strings"

	"github.com/estaidesoriginal/biblioteca-G/internal/model"
	"github.com/estaidesoriginal/biblioteca-G/internal/policy"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type ProductStore interface {
	List(ctx context.Context) ([]model.Product, error)
	GetByID(ctx context.Context, id string) (model.Product, error)
	Create(ctx context.Context, p model.Product) error
	Update(ctx context.Context, p model.Product) error
	Delete(ctx context.Context, id string) error
}

type ProductService struct {
	Products ProductStore
	log      logrus.FieldLogger
}

func NewProductService(products ProductStore, log logrus.FieldLogger) *ProductService {
	return &ProductService{Products: products, log: log.WithField("component", "products")}
}

func (s *ProductService) List(ctx context.Context) ([]model.Product, error) {
	return s.Products.List(ctx)
}

func (s *ProductService) Create(ctx context.Context, caller Caller, p model.Product) (model.Product, error) {
	if err := policy.Check(policy.CanManageProducts(caller.Role), "create product", caller.Role); err != nil {
		return model.Product{}, err
	}
	if strings.TrimSpace(p.ID) == "" {
		p.ID = uuid.NewString()
	}
	if p.Categories == nil {
		p.Categories = []string{}
	}
	if err := p.Validate(); err != nil {
		return model.Product{}, err
	}
	if err := s.Products.Create(ctx, p); err != nil {
		return model.Product{}, err
	}
	s.log.WithFields(logrus.Fields{"product_id": p.ID, "by": caller.UserID}).Info("product created")
	return p, nil
}

func (s *ProductService) Update(ctx context.Context, caller Caller, id string, p model.Product) (model.Product, error) {
	if err := policy.Check(policy.CanManageProducts(caller.Role), "edit product", caller.Role); err != nil {
		return model.Product{}, err
	}
	p.ID = id
	if p.Categories == nil {
		p.Categories = []string{}
	}
	if err := p.Validate(); err != nil {
		return model.Product{}, err
	}
	if err := s.Products.Update(ctx, p); err != nil {
		return model.Product{}, err
	}
	return p, nil
}

func (s *ProductService) Delete(ctx context.Context, caller Caller, id string) error {
	if err := policy.Check(policy.CanManageProducts(caller.Role), "delete product", caller.Role); err != nil {
		return err
	}
	return s.Products.Delete(ctx, id)
}
