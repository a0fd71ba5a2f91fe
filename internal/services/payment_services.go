package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	mt "github.com/estaidesoriginal/biblioteca-G/external/midtrans"
	"github.com/estaidesoriginal/biblioteca-G/internal/apperr"
	"github.com/estaidesoriginal/biblioteca-G/internal/model"
	"github.com/estaidesoriginal/biblioteca-G/internal/repository"

	"github.com/google/uuid"
	midtrans "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
)

var ErrInvalidSignature = errors.New("invalid signature")

type SnapCreator interface {
	CreateTransaction(req *snap.Request) (*snap.Response, *midtrans.Error)
}

type PaymentStore interface {
	PendingByOrder(ctx context.Context, orderID int64) (*repository.Payment, error)
	CreatePending(ctx context.Context, orderID, amount int64, provider, providerRef string, payload []byte) (int64, error)
}

type OrderReader interface {
	GetByID(ctx context.Context, id string) (model.Order, error)
}

// Settler records a payment outcome and the matching order status atomically.
// It reports false when the payment had already been settled.
type Settler interface {
	Settle(ctx context.Context, providerRef, paymentStatus string, orderID int64, orderStatus model.OrderStatus, payload []byte) (bool, error)
}

type PaymentService struct {
	Payments  PaymentStore
	Orders    OrderReader
	Settler   Settler
	Snap      SnapCreator
	ServerKey string
	log       logrus.FieldLogger
}

func NewPaymentService(
	payments PaymentStore,
	orders OrderReader,
	settler Settler,
	snapClient SnapCreator,
	serverKey string,
	log logrus.FieldLogger,
) *PaymentService {
	return &PaymentService{
		Payments:  payments,
		Orders:    orders,
		Settler:   settler,
		Snap:      snapClient,
		ServerKey: serverKey,
		log:       log.WithField("component", "payments"),
	}
}

// CreateSnapPayment opens a Midtrans Snap transaction for a PENDING order owned
// by the caller and returns the redirect URL.
func (s *PaymentService) CreateSnapPayment(ctx context.Context, caller Caller, orderID string) (string, error) {
	order, err := s.Orders.GetByID(ctx, orderID)
	if err != nil {
		return "", err
	}
	if order.UserID != caller.UserID {
		return "", apperr.Denied("pay order %s as %s", orderID, caller.Role)
	}
	if order.Status != model.StatusPending {
		return "", apperr.Invalid("order", "cannot be paid in status "+string(order.Status))
	}

	var id int64
	if _, err := fmt.Sscanf(orderID, "%d", &id); err != nil {
		return "", repository.ErrNotFound
	}
	existing, err := s.Payments.PendingByOrder(ctx, id)
	if err != nil {
		return "", err
	}
	if existing != nil {
		return "", apperr.Invalid("order", "payment already exists")
	}

	amount := decimal.NewFromFloat(order.Total).Ceil().IntPart()
	externalRef := fmt.Sprintf("ORDER-%d-%s", id, uuid.NewString())
	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  externalRef,
			GrossAmt: amount,
		},
	}

	resp, snapErr := s.Snap.CreateTransaction(req)
	if snapErr != nil {
		return "", fmt.Errorf("midtrans: %v", snapErr)
	}

	payload, _ := json.Marshal(resp)
	if _, err := s.Payments.CreatePending(ctx, id, amount, "midtrans", externalRef, payload); err != nil {
		return "", err
	}
	s.log.WithFields(logrus.Fields{"order_id": orderID, "ref": externalRef}).Info("payment opened")
	return resp.RedirectURL, nil
}

// HandleNotification applies a signed Midtrans notification. Settlement marks the
// order PAID; expiry, cancellation and denial mark it CANCELED. Repeats are no-ops.
func (s *PaymentService) HandleNotification(ctx context.Context, body []byte) error {
	if !gjson.ValidBytes(body) {
		return apperr.Invalid("payload", "invalid json")
	}
	n := gjson.ParseBytes(body)
	ref := n.Get("order_id").String()
	if ref == "" {
		return apperr.Invalid("order_id", "is required")
	}

	if !mt.VerifySignature(
		ref,
		n.Get("status_code").String(),
		n.Get("gross_amount").String(),
		n.Get("signature_key").String(),
		s.ServerKey,
	) {
		return ErrInvalidSignature
	}

	var orderID int64
	if _, err := fmt.Sscanf(ref, "ORDER-%d-", &orderID); err != nil {
		return apperr.Invalid("order_id", "invalid order reference")
	}

	var (
		paymentStatus string
		orderStatus   model.OrderStatus
	)
	switch n.Get("transaction_status").String() {
	case "settlement":
		paymentStatus, orderStatus = repository.PaymentPaid, model.StatusPaid
	case "capture":
		if n.Get("fraud_status").String() != "accept" {
			return nil
		}
		paymentStatus, orderStatus = repository.PaymentPaid, model.StatusPaid
	case "expire", "cancel", "deny":
		paymentStatus, orderStatus = repository.PaymentFailed, model.StatusCanceled
	default:
		return nil
	}

	settled, err := s.Settler.Settle(ctx, ref, paymentStatus, orderID, orderStatus, body)
	if err != nil {
		return err
	}
	log := s.log.WithFields(logrus.Fields{"order_id": orderID, "ref": ref, "status": orderStatus})
	if !settled {
		log.Debug("notification for settled payment ignored")
		return nil
	}
	log.Info("payment settled")
	return nil
}

// NewSettler settles payments and orders in one pgx transaction.
func NewSettler(pr *repository.PaymentRepository, or *repository.OrderRepository) Settler {
	return &pgSettler{payments: pr, orders: or}
}

type pgSettler struct {
	payments *repository.PaymentRepository
	orders   *repository.OrderRepository
}

func (p *pgSettler) Settle(ctx context.Context, providerRef, paymentStatus string, orderID int64, orderStatus model.OrderStatus, payload []byte) (bool, error) {
	tx, err := p.payments.DB.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer tx.Rollback(ctx)

	ok, err := p.payments.SettleTx(ctx, tx, providerRef, paymentStatus, payload)
	if err != nil || !ok {
		return false, err
	}
	if err := p.orders.UpdateStatusTx(ctx, tx, orderID, orderStatus); err != nil {
		return false, err
	}
	return true, tx.Commit(ctx)
}
