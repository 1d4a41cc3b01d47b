package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Ram071/market/storefront-svc/internal/domain"

	"github.com/skip2/go-qrcode"
)

var ErrOrderNotFound = errors.New("order not found")

type QRGenerator interface {
	Generate(orderID string) ([]byte, error)
}

type DefaultQRGenerator struct {
	BaseURL string
}

func (g DefaultQRGenerator) Generate(orderID string) ([]byte, error) {
	qrData := fmt.Sprintf("%s/track.html?order_id=%s", strings.TrimRight(g.BaseURL, "/"), orderID)
	return qrcode.Encode(qrData, qrcode.Medium, 256)
}

type OrderLookup interface {
	Order(orderID string) (domain.Order, bool)
}

type OrderQRServiceInterface interface {
	QRCode(orderID string) ([]byte, error)
	QRLink(orderID string) string
}

// OrderQRService renders tracking QR codes for orders of the session.
type OrderQRService struct {
	orders    OrderLookup
	qrEncoder QRGenerator
}

func NewOrderQRService(orders OrderLookup, qr QRGenerator) *OrderQRService {
	return &OrderQRService{orders: orders, qrEncoder: qr}
}

func (s *OrderQRService) QRCode(orderID string) ([]byte, error) {
	if _, ok := s.orders.Order(orderID); !ok {
		return nil, ErrOrderNotFound
	}
	return s.qrEncoder.Generate(orderID)
}

func (s *OrderQRService) QRLink(orderID string) string {
	return fmt.Sprintf("/api/orders/%s/qrcode", orderID)
}

var _ OrderQRServiceInterface = (*OrderQRService)(nil)
