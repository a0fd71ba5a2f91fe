package catalog

import (
	"github.com/estaidesoriginal/biblioteca-G/internal/model"
	"github.com/estaidesoriginal/biblioteca-G/internal/policy"

	"github.com/sirupsen/logrus"
)

type Products struct {
	*Catalog[model.Product]
}

func NewProducts(remote Remote[model.Product], roles policy.RoleSource, log logrus.FieldLogger) *Products {
	return &Products{New(remote, Options[model.Product]{
		Name: "products",
		Guard: func(op Op, _, _ *model.Product) error {
			role := roles.Role()
			return policy.Check(policy.CanManageProducts(role), op.String()+" product", role)
		},
	}, log)}
}
