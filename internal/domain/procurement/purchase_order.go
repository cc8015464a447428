package procurement

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/techrefresher/backend/internal/domain/shared"
)

// PurchaseOrderStatus represents the status of a purchase order
type PurchaseOrderStatus string

const (
	PurchaseOrderStatusCreated           PurchaseOrderStatus = "CREATED"
	PurchaseOrderStatusPaid              PurchaseOrderStatus = "PAID"
	PurchaseOrderStatusPartiallyShipped  PurchaseOrderStatus = "PARTIALLY_SHIPPED"
	PurchaseOrderStatusShipped           PurchaseOrderStatus = "SHIPPED"
	PurchaseOrderStatusPartiallyReceived PurchaseOrderStatus = "PARTIALLY_RECEIVED"
	PurchaseOrderStatusReceived          PurchaseOrderStatus = "RECEIVED"
	PurchaseOrderStatusCancelled         PurchaseOrderStatus = "CANCELLED"
	PurchaseOrderStatusArchived          PurchaseOrderStatus = "ARCHIVED"
)

// IsValid checks if the status is a valid PurchaseOrderStatus
func (s PurchaseOrderStatus) IsValid() bool {
	switch s {
	case PurchaseOrderStatusCreated, PurchaseOrderStatusPaid,
		PurchaseOrderStatusPartiallyShipped, PurchaseOrderStatusShipped,
		PurchaseOrderStatusPartiallyReceived, PurchaseOrderStatusReceived,
		PurchaseOrderStatusCancelled, PurchaseOrderStatusArchived:
		return true
	}
	return false
}

// String returns the string representation of PurchaseOrderStatus
func (s PurchaseOrderStatus) String() string {
	return string(s)
}

// CanEdit returns true if header fields and line items may be modified
func (s PurchaseOrderStatus) CanEdit() bool {
	return s == PurchaseOrderStatusCreated
}

// CanRecordPayment returns true if a payment may be recorded in this status
func (s PurchaseOrderStatus) CanRecordPayment() bool {
	return s == PurchaseOrderStatusCreated || s == PurchaseOrderStatusPaid
}

// CanRecordShipment returns true if a shipment may be recorded in this status
func (s PurchaseOrderStatus) CanRecordShipment() bool {
	switch s {
	case PurchaseOrderStatusPaid, PurchaseOrderStatusPartiallyShipped, PurchaseOrderStatusPartiallyReceived:
		return true
	}
	return false
}

// CanReceive returns true if goods may be received in this status
func (s PurchaseOrderStatus) CanReceive() bool {
	switch s {
	case PurchaseOrderStatusShipped, PurchaseOrderStatusPartiallyShipped, PurchaseOrderStatusPartiallyReceived:
		return true
	}
	return false
}

// CanCancel returns true if the order may still be cancelled
func (s PurchaseOrderStatus) CanCancel() bool {
	return s == PurchaseOrderStatusCreated || s == PurchaseOrderStatusPaid
}

// CanArchive returns true if the order may be archived
func (s PurchaseOrderStatus) CanArchive() bool {
	return s == PurchaseOrderStatusReceived
}

// IsTerminal returns true for terminal statuses
func (s PurchaseOrderStatus) IsTerminal() bool {
	return s == PurchaseOrderStatusArchived || s == PurchaseOrderStatusCancelled
}

// ItemCategory tags a line item with the kind of catalog entry it links to
type ItemCategory string

const (
	ItemCategoryPart      ItemCategory = "PART"
	ItemCategoryAccessory ItemCategory = "ACCESSORY"
	ItemCategoryDevice    ItemCategory = "DEVICE"
	ItemCategoryGame      ItemCategory = "GAME"
)

// IsValid checks if the category is a known ItemCategory
func (c ItemCategory) IsValid() bool {
	switch c {
	case ItemCategoryPart, ItemCategoryAccessory, ItemCategoryDevice, ItemCategoryGame:
		return true
	}
	return false
}

// String returns the string representation of ItemCategory
func (c ItemCategory) String() string {
	return string(c)
}

// LineItem represents a line item in a purchase order.
// Each line carries a stable synthetic ID assigned at creation; shipment and
// receipt lines reference line items by this exact ID. QuantityShipped and
// QuantityReceived are running counters maintained alongside each log append
// rather than re-summed from the logs on every read.
type LineItem struct {
	ID               uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrderID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	Description      string          `gorm:"type:varchar(300);not null"`
	Category         ItemCategory    `gorm:"type:varchar(20);not null"`
	LinkedID         *uuid.UUID      `gorm:"type:uuid;index"` // catalog entry reference; required before receive
	Quantity         int64           `gorm:"not null"`
	UnitPrice        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	QuantityShipped  int64           `gorm:"not null;default:0"`
	QuantityReceived int64           `gorm:"not null;default:0"`
	CreatedAt        time.Time       `gorm:"not null"`
	UpdatedAt        time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (LineItem) TableName() string {
	return "purchase_order_line_items"
}

// NewLineItem creates a new purchase order line item
func NewLineItem(orderID uuid.UUID, description string, category ItemCategory, linkedID *uuid.UUID, quantity int64, unitPrice decimal.Decimal) (*LineItem, error) {
	if description == "" {
		return nil, shared.NewDomainError("INVALID_DESCRIPTION", "Line item description cannot be empty")
	}
	if !category.IsValid() {
		return nil, shared.NewDomainError("INVALID_CATEGORY", fmt.Sprintf("Unknown item category %q", category))
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	if linkedID != nil && *linkedID == uuid.Nil {
		linkedID = nil
	}

	now := time.Now()
	return &LineItem{
		ID:          uuid.New(),
		OrderID:     orderID,
		Description: description,
		Category:    category,
		LinkedID:    linkedID,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Amount returns quantity times unit price
func (i *LineItem) Amount() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(i.Quantity))
}

// IsLinked returns true if the line references a catalog entry
func (i *LineItem) IsLinked() bool {
	return i.LinkedID != nil && *i.LinkedID != uuid.Nil
}

// RemainingToShip returns the quantity not yet shipped
func (i *LineItem) RemainingToShip() int64 {
	remaining := i.Quantity - i.QuantityShipped
	if remaining < 0 {
		return 0
	}
	return remaining
}

// ReceivableQuantity returns how many units may still be received:
// min(quantity, shipped) minus what was already received.
func (i *LineItem) ReceivableQuantity() int64 {
	limit := i.Quantity
	if i.QuantityShipped < limit {
		limit = i.QuantityShipped
	}
	receivable := limit - i.QuantityReceived
	if receivable < 0 {
		return 0
	}
	return receivable
}

// IsFullyShipped returns true if the whole ordered quantity has shipped
func (i *LineItem) IsFullyShipped() bool {
	return i.QuantityShipped >= i.Quantity
}

// IsFullyReceived returns true if the whole ordered quantity was received
func (i *LineItem) IsFullyReceived() bool {
	return i.QuantityReceived >= i.Quantity
}

// AddShippedQuantity adds to the shipped running counter
func (i *LineItem) AddShippedQuantity(quantity int64) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Shipment quantity must be positive")
	}
	if quantity > i.RemainingToShip() {
		return shared.NewDomainError("QUANTITY_EXCEEDED",
			fmt.Sprintf("Cannot ship %d units of %q, only %d remaining", quantity, i.Description, i.RemainingToShip()))
	}
	i.QuantityShipped += quantity
	i.UpdatedAt = time.Now()
	return nil
}

// AddReceivedQuantity adds to the received running counter.
// Receipt is capped by what has actually shipped, not just what was ordered.
func (i *LineItem) AddReceivedQuantity(quantity int64) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Receive quantity must be positive")
	}
	if quantity > i.ReceivableQuantity() {
		return shared.NewDomainError("QUANTITY_EXCEEDED",
			fmt.Sprintf("Cannot receive %d units of %q, only %d receivable", quantity, i.Description, i.ReceivableQuantity()))
	}
	i.QuantityReceived += quantity
	i.UpdatedAt = time.Now()
	return nil
}

// Update changes the editable fields of the line item
func (i *LineItem) Update(description string, quantity int64, unitPrice decimal.Decimal) error {
	if description == "" {
		return shared.NewDomainError("INVALID_DESCRIPTION", "Line item description cannot be empty")
	}
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if quantity < i.QuantityShipped {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity cannot be less than the quantity already shipped")
	}
	if unitPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	i.Description = description
	i.Quantity = quantity
	i.UnitPrice = unitPrice
	i.UpdatedAt = time.Now()
	return nil
}

// Link sets the catalog reference for the line item
func (i *LineItem) Link(linkedID uuid.UUID) error {
	if linkedID == uuid.Nil {
		return shared.NewDomainError("INVALID_LINK", "Linked catalog ID cannot be empty")
	}
	i.LinkedID = &linkedID
	i.UpdatedAt = time.Now()
	return nil
}

// StatusChange is an append-only status history entry
type StatusChange struct {
	ID      uuid.UUID           `gorm:"type:uuid;primary_key"`
	OrderID uuid.UUID           `gorm:"type:uuid;not null;index"`
	Status  PurchaseOrderStatus `gorm:"type:varchar(20);not null"`
	By      uuid.UUID           `gorm:"type:uuid;not null"`
	At      time.Time           `gorm:"not null"`
	Note    string              `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (StatusChange) TableName() string {
	return "purchase_order_status_history"
}

// Payment is an append-only payment record
type Payment struct {
	ID         uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrderID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	DatePaid   time.Time       `gorm:"not null"`
	AmountPaid decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Method     string          `gorm:"type:varchar(50)"`
	Reference  string          `gorm:"type:varchar(100)"`
	Notes      string          `gorm:"type:varchar(500)"`
	RecordedBy uuid.UUID       `gorm:"type:uuid;not null"`
	RecordedAt time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (Payment) TableName() string {
	return "purchase_order_payments"
}

// ShipmentLine ties a shipment to a line item by exact synthetic ID
type ShipmentLine struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key"`
	ShipmentID uuid.UUID `gorm:"type:uuid;not null;index"`
	LineItemID uuid.UUID `gorm:"type:uuid;not null;index"`
	Quantity   int64     `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ShipmentLine) TableName() string {
	return "purchase_order_shipment_lines"
}

// Shipment is an append-only shipment record
type Shipment struct {
	ID          uuid.UUID      `gorm:"type:uuid;primary_key"`
	OrderID     uuid.UUID      `gorm:"type:uuid;not null;index"`
	DateShipped time.Time      `gorm:"not null"`
	Carrier     string         `gorm:"type:varchar(100)"`
	Tracking    string         `gorm:"type:varchar(100)"`
	Notes       string         `gorm:"type:varchar(500)"`
	Lines       []ShipmentLine `gorm:"foreignKey:ShipmentID;references:ID"`
	RecordedBy  uuid.UUID      `gorm:"type:uuid;not null"`
	RecordedAt  time.Time      `gorm:"not null"`
}

// TableName returns the table name for GORM
func (Shipment) TableName() string {
	return "purchase_order_shipments"
}

// ReceiptLine ties a receipt to a line item by exact synthetic ID
type ReceiptLine struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key"`
	ReceiptID  uuid.UUID `gorm:"type:uuid;not null;index"`
	LineItemID uuid.UUID `gorm:"type:uuid;not null;index"`
	Quantity   int64     `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ReceiptLine) TableName() string {
	return "purchase_order_receipt_lines"
}

// Receipt is an append-only receiving record
type Receipt struct {
	ID           uuid.UUID     `gorm:"type:uuid;primary_key"`
	OrderID      uuid.UUID     `gorm:"type:uuid;not null;index"`
	DateReceived time.Time     `gorm:"not null"`
	Notes        string        `gorm:"type:varchar(500)"`
	Lines        []ReceiptLine `gorm:"foreignKey:ReceiptID;references:ID"`
	RecordedBy   uuid.UUID     `gorm:"type:uuid;not null"`
	RecordedAt   time.Time     `gorm:"not null"`
}

// TableName returns the table name for GORM
func (Receipt) TableName() string {
	return "purchase_order_receipts"
}

// PaymentInput carries the fields for recording a payment
type PaymentInput struct {
	DatePaid   time.Time
	AmountPaid decimal.Decimal
	Method     string
	Reference  string
	Notes      string
}

// ShipmentLineInput identifies a shipped quantity for one line item
type ShipmentLineInput struct {
	LineItemID uuid.UUID
	Quantity   int64
}

// ShipmentInput carries the fields for recording a shipment
type ShipmentInput struct {
	DateShipped time.Time
	Carrier     string
	Tracking    string
	Notes       string
	Lines       []ShipmentLineInput
}

// ReceiptLineInput identifies a received quantity for one line item
type ReceiptLineInput struct {
	LineItemID uuid.UUID
	Quantity   int64
}

// ReceiptInput carries the fields for recording a receipt
type ReceiptInput struct {
	DateReceived time.Time
	Notes        string
	Lines        []ReceiptLineInput
}

// ReceivedLine reports one line's received quantity back to the caller so the
// linked catalog stock and part inventory can be updated in the same
// transaction. UnitPrice is the line's purchase price per unit.
type ReceivedLine struct {
	LineItemID  uuid.UUID
	LinkedID    uuid.UUID
	Category    ItemCategory
	Description string
	Quantity    int64
	UnitPrice   decimal.Decimal
}

// PurchaseOrder represents a purchase order aggregate root.
// It tracks goods ordered from a vendor through the paid/shipped/received
// lifecycle, with append-only payment, shipment and receipt logs.
type PurchaseOrder struct {
	shared.GroupAggregateRoot
	Vendor            string    `gorm:"type:varchar(200);not null"`
	VendorOrderNumber string    `gorm:"type:varchar(100)"`
	OrderDate         time.Time `gorm:"not null;index"`
	Notes             string    `gorm:"type:text"`

	LineItems []LineItem `gorm:"foreignKey:OrderID;references:ID"`

	Subtotal     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Tax          decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ShippingCost decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	OtherFees    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Total        decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`

	Status        PurchaseOrderStatus `gorm:"type:varchar(20);not null;default:'CREATED'"`
	StatusHistory []StatusChange      `gorm:"foreignKey:OrderID;references:ID"`
	Payments      []Payment           `gorm:"foreignKey:OrderID;references:ID"`
	Shipments     []Shipment          `gorm:"foreignKey:OrderID;references:ID"`
	Receipts      []Receipt           `gorm:"foreignKey:OrderID;references:ID"`

	ArchivedAt   *time.Time
	CancelledAt  *time.Time
	CancelReason string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (PurchaseOrder) TableName() string {
	return "purchase_orders"
}

// NewPurchaseOrder creates a new purchase order in CREATED status
func NewPurchaseOrder(groupID uuid.UUID, vendor string, vendorOrderNumber string, orderDate time.Time, notes string, createdBy uuid.UUID) (*PurchaseOrder, error) {
	if vendor == "" {
		return nil, shared.NewDomainError("INVALID_VENDOR", "Vendor cannot be empty")
	}
	if len(vendor) > 200 {
		return nil, shared.NewDomainError("INVALID_VENDOR", "Vendor cannot exceed 200 characters")
	}
	if orderDate.IsZero() {
		orderDate = time.Now()
	}

	order := &PurchaseOrder{
		GroupAggregateRoot: shared.NewGroupAggregateRoot(groupID),
		Vendor:             vendor,
		VendorOrderNumber:  vendorOrderNumber,
		OrderDate:          orderDate,
		Notes:              notes,
		LineItems:          make([]LineItem, 0),
		Subtotal:           decimal.Zero,
		Tax:                decimal.Zero,
		ShippingCost:       decimal.Zero,
		OtherFees:          decimal.Zero,
		Total:              decimal.Zero,
		Status:             PurchaseOrderStatusCreated,
	}
	order.appendStatusHistory(PurchaseOrderStatusCreated, createdBy, "")
	order.AddDomainEvent(NewPurchaseOrderCreatedEvent(order))

	return order, nil
}

// AddLineItem adds a new line item; only allowed while editable
func (o *PurchaseOrder) AddLineItem(description string, category ItemCategory, linkedID *uuid.UUID, quantity int64, unitPrice decimal.Decimal) (*LineItem, error) {
	if !o.Status.CanEdit() {
		return nil, shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot add line items to an order in %s status", o.Status))
	}

	item, err := NewLineItem(o.ID, description, category, linkedID, quantity, unitPrice)
	if err != nil {
		return nil, err
	}

	o.LineItems = append(o.LineItems, *item)
	o.recalculateTotals()
	o.Touch()

	return item, nil
}

// UpdateLineItem updates an existing line item's editable fields
func (o *PurchaseOrder) UpdateLineItem(itemID uuid.UUID, description string, quantity int64, unitPrice decimal.Decimal) error {
	if !o.Status.CanEdit() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot update line items of an order in %s status", o.Status))
	}

	for idx := range o.LineItems {
		if o.LineItems[idx].ID == itemID {
			if err := o.LineItems[idx].Update(description, quantity, unitPrice); err != nil {
				return err
			}
			o.recalculateTotals()
			o.Touch()
			return nil
		}
	}
	return shared.NewDomainError("ITEM_NOT_FOUND", "Line item not found")
}

// RemoveLineItem removes a line item; only allowed while editable
func (o *PurchaseOrder) RemoveLineItem(itemID uuid.UUID) error {
	if !o.Status.CanEdit() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot remove line items from an order in %s status", o.Status))
	}

	for idx, item := range o.LineItems {
		if item.ID == itemID {
			o.LineItems = append(o.LineItems[:idx], o.LineItems[idx+1:]...)
			o.recalculateTotals()
			o.Touch()
			return nil
		}
	}
	return shared.NewDomainError("ITEM_NOT_FOUND", "Line item not found")
}

// LinkLineItem attaches a catalog reference to a line item. Linking remains
// possible after editing closes so orders created before the catalog entry
// existed can still be received.
func (o *PurchaseOrder) LinkLineItem(itemID, linkedID uuid.UUID) error {
	if o.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot link line items of an order in %s status", o.Status))
	}

	for idx := range o.LineItems {
		if o.LineItems[idx].ID == itemID {
			if err := o.LineItems[idx].Link(linkedID); err != nil {
				return err
			}
			o.Touch()
			return nil
		}
	}
	return shared.NewDomainError("ITEM_NOT_FOUND", "Line item not found")
}

// UpdateHeader updates the vendor/date/notes header fields
func (o *PurchaseOrder) UpdateHeader(vendor, vendorOrderNumber string, orderDate time.Time, notes string) error {
	if !o.Status.CanEdit() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot edit an order in %s status", o.Status))
	}
	if vendor == "" {
		return shared.NewDomainError("INVALID_VENDOR", "Vendor cannot be empty")
	}
	o.Vendor = vendor
	o.VendorOrderNumber = vendorOrderNumber
	if !orderDate.IsZero() {
		o.OrderDate = orderDate
	}
	o.Notes = notes
	o.Touch()
	return nil
}

// SetCharges sets tax, shipping cost and other fees and recomputes the total.
// OtherFees may be negative (discounts and credits are recorded there).
func (o *PurchaseOrder) SetCharges(tax, shippingCost, otherFees decimal.Decimal) error {
	if !o.Status.CanEdit() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot edit charges of an order in %s status", o.Status))
	}
	if tax.IsNegative() {
		return shared.NewDomainError("INVALID_CHARGE", "Tax cannot be negative")
	}
	if shippingCost.IsNegative() {
		return shared.NewDomainError("INVALID_CHARGE", "Shipping cost cannot be negative")
	}
	o.Tax = tax
	o.ShippingCost = shippingCost
	o.OtherFees = otherFees
	o.recalculateTotals()
	o.Touch()
	return nil
}

// RecordPayment appends a payment record. The first payment advances the
// order from CREATED to PAID; the amount is not validated against the total.
func (o *PurchaseOrder) RecordPayment(input PaymentInput, recordedBy uuid.UUID) (*Payment, error) {
	if !o.Status.CanRecordPayment() {
		return nil, shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot record a payment for an order in %s status", o.Status))
	}
	if input.AmountPaid.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Payment amount cannot be negative")
	}
	if input.DatePaid.IsZero() {
		input.DatePaid = time.Now()
	}

	payment := Payment{
		ID:         uuid.New(),
		OrderID:    o.ID,
		DatePaid:   input.DatePaid,
		AmountPaid: input.AmountPaid,
		Method:     input.Method,
		Reference:  input.Reference,
		Notes:      input.Notes,
		RecordedBy: recordedBy,
		RecordedAt: time.Now(),
	}
	o.Payments = append(o.Payments, payment)

	if o.Status == PurchaseOrderStatusCreated {
		o.transitionTo(PurchaseOrderStatusPaid, recordedBy, "")
	}
	o.Touch()

	o.AddDomainEvent(NewPurchaseOrderPaymentRecordedEvent(o, &payment))

	return &payment, nil
}

// RecordShipment appends a shipment record and advances the shipped running
// counters. Status becomes SHIPPED when every line is fully shipped and
// PARTIALLY_SHIPPED otherwise; per-line caps keep that per-line check
// equivalent to the aggregate quantity comparison.
func (o *PurchaseOrder) RecordShipment(input ShipmentInput, recordedBy uuid.UUID) (*Shipment, error) {
	if !o.Status.CanRecordShipment() {
		return nil, shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot record a shipment for an order in %s status", o.Status))
	}
	if len(input.Lines) == 0 {
		return nil, shared.NewDomainError("NO_LINES", "Shipment must include at least one line")
	}
	if input.DateShipped.IsZero() {
		input.DateShipped = time.Now()
	}

	shipment := Shipment{
		ID:          uuid.New(),
		OrderID:     o.ID,
		DateShipped: input.DateShipped,
		Carrier:     input.Carrier,
		Tracking:    input.Tracking,
		Notes:       input.Notes,
		Lines:       make([]ShipmentLine, 0, len(input.Lines)),
		RecordedBy:  recordedBy,
		RecordedAt:  time.Now(),
	}

	for _, line := range input.Lines {
		item := o.lineItem(line.LineItemID)
		if item == nil {
			return nil, shared.NewDomainError("ITEM_NOT_FOUND", fmt.Sprintf("Line item %s not found in order", line.LineItemID))
		}
		if err := item.AddShippedQuantity(line.Quantity); err != nil {
			return nil, err
		}
		shipment.Lines = append(shipment.Lines, ShipmentLine{
			ID:         uuid.New(),
			ShipmentID: shipment.ID,
			LineItemID: line.LineItemID,
			Quantity:   line.Quantity,
		})
	}

	o.Shipments = append(o.Shipments, shipment)

	// A late shipment after a partial receipt does not regress the status
	// back into the shipping stage.
	if o.Status != PurchaseOrderStatusPartiallyReceived {
		next := PurchaseOrderStatusPartiallyShipped
		if o.allLinesShipped() {
			next = PurchaseOrderStatusShipped
		}
		if o.Status != next {
			o.transitionTo(next, recordedBy, "")
		}
	}
	o.Touch()

	o.AddDomainEvent(NewPurchaseOrderShipmentRecordedEvent(o, &shipment))

	return &shipment, nil
}

// Receive appends a receipt record and advances the received running
// counters. The whole operation is refused if any line item in the order is
// missing its catalog link. Returns the received lines so linked catalog
// stock can be incremented in the same transaction.
func (o *PurchaseOrder) Receive(input ReceiptInput, recordedBy uuid.UUID) ([]ReceivedLine, error) {
	if !o.Status.CanReceive() {
		return nil, shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot receive goods for an order in %s status", o.Status))
	}
	if len(input.Lines) == 0 {
		return nil, shared.NewDomainError("NO_LINES", "Receipt must include at least one line")
	}
	for idx := range o.LineItems {
		if !o.LineItems[idx].IsLinked() {
			return nil, shared.NewDomainError("MISSING_LINK",
				fmt.Sprintf("Line item %q has no linked catalog entry; link every line before receiving", o.LineItems[idx].Description))
		}
	}
	if input.DateReceived.IsZero() {
		input.DateReceived = time.Now()
	}

	receipt := Receipt{
		ID:           uuid.New(),
		OrderID:      o.ID,
		DateReceived: input.DateReceived,
		Notes:        input.Notes,
		Lines:        make([]ReceiptLine, 0, len(input.Lines)),
		RecordedBy:   recordedBy,
		RecordedAt:   time.Now(),
	}

	received := make([]ReceivedLine, 0, len(input.Lines))
	for _, line := range input.Lines {
		item := o.lineItem(line.LineItemID)
		if item == nil {
			return nil, shared.NewDomainError("ITEM_NOT_FOUND", fmt.Sprintf("Line item %s not found in order", line.LineItemID))
		}
		if err := item.AddReceivedQuantity(line.Quantity); err != nil {
			return nil, err
		}
		receipt.Lines = append(receipt.Lines, ReceiptLine{
			ID:         uuid.New(),
			ReceiptID:  receipt.ID,
			LineItemID: line.LineItemID,
			Quantity:   line.Quantity,
		})
		received = append(received, ReceivedLine{
			LineItemID:  item.ID,
			LinkedID:    *item.LinkedID,
			Category:    item.Category,
			Description: item.Description,
			Quantity:    line.Quantity,
			UnitPrice:   item.UnitPrice,
		})
	}

	o.Receipts = append(o.Receipts, receipt)

	next := PurchaseOrderStatusPartiallyReceived
	if o.allLinesReceived() {
		next = PurchaseOrderStatusReceived
	}
	if o.Status != next {
		o.transitionTo(next, recordedBy, "")
	}
	o.Touch()

	o.AddDomainEvent(NewPurchaseOrderReceivedEvent(o, received))

	return received, nil
}

// Archive marks a fully received order as archived (terminal)
func (o *PurchaseOrder) Archive(by uuid.UUID) error {
	if !o.Status.CanArchive() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot archive an order in %s status", o.Status))
	}
	now := time.Now()
	o.ArchivedAt = &now
	o.transitionTo(PurchaseOrderStatusArchived, by, "")
	o.Touch()

	o.AddDomainEvent(NewPurchaseOrderArchivedEvent(o))
	return nil
}

// Cancel cancels the order; allowed only before any goods have shipped
func (o *PurchaseOrder) Cancel(reason string, by uuid.UUID) error {
	if !o.Status.CanCancel() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot cancel an order in %s status", o.Status))
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Cancel reason is required")
	}
	if len(o.Shipments) > 0 {
		return shared.NewDomainError("ALREADY_SHIPPED", "Cannot cancel an order after goods have shipped")
	}

	now := time.Now()
	o.CancelledAt = &now
	o.CancelReason = reason
	o.transitionTo(PurchaseOrderStatusCancelled, by, reason)
	o.Touch()

	o.AddDomainEvent(NewPurchaseOrderCancelledEvent(o))
	return nil
}

// recalculateTotals recomputes the derived monetary fields
func (o *PurchaseOrder) recalculateTotals() {
	subtotal := decimal.Zero
	for idx := range o.LineItems {
		subtotal = subtotal.Add(o.LineItems[idx].Amount())
	}
	o.Subtotal = subtotal
	o.Total = subtotal.Add(o.Tax).Add(o.ShippingCost).Add(o.OtherFees)
}

// transitionTo changes the status and appends the history entry
func (o *PurchaseOrder) transitionTo(status PurchaseOrderStatus, by uuid.UUID, note string) {
	o.Status = status
	o.appendStatusHistory(status, by, note)
}

func (o *PurchaseOrder) appendStatusHistory(status PurchaseOrderStatus, by uuid.UUID, note string) {
	o.StatusHistory = append(o.StatusHistory, StatusChange{
		ID:      uuid.New(),
		OrderID: o.ID,
		Status:  status,
		By:      by,
		At:      time.Now(),
		Note:    note,
	})
}

func (o *PurchaseOrder) lineItem(id uuid.UUID) *LineItem {
	for idx := range o.LineItems {
		if o.LineItems[idx].ID == id {
			return &o.LineItems[idx]
		}
	}
	return nil
}

func (o *PurchaseOrder) allLinesShipped() bool {
	for idx := range o.LineItems {
		if !o.LineItems[idx].IsFullyShipped() {
			return false
		}
	}
	return len(o.LineItems) > 0
}

func (o *PurchaseOrder) allLinesReceived() bool {
	for idx := range o.LineItems {
		if !o.LineItems[idx].IsFullyReceived() {
			return false
		}
	}
	return len(o.LineItems) > 0
}

// GetLineItem returns a line item by its ID
func (o *PurchaseOrder) GetLineItem(itemID uuid.UUID) *LineItem {
	return o.lineItem(itemID)
}

// AllLinesLinked returns true when every line item carries a catalog link
func (o *PurchaseOrder) AllLinesLinked() bool {
	for idx := range o.LineItems {
		if !o.LineItems[idx].IsLinked() {
			return false
		}
	}
	return true
}

// TotalOrderedQuantity returns the ordered quantity summed across lines
func (o *PurchaseOrder) TotalOrderedQuantity() int64 {
	var total int64
	for idx := range o.LineItems {
		total += o.LineItems[idx].Quantity
	}
	return total
}

// TotalShippedQuantity returns the shipped quantity summed across lines
func (o *PurchaseOrder) TotalShippedQuantity() int64 {
	var total int64
	for idx := range o.LineItems {
		total += o.LineItems[idx].QuantityShipped
	}
	return total
}

// TotalReceivedQuantity returns the received quantity summed across lines
func (o *PurchaseOrder) TotalReceivedQuantity() int64 {
	var total int64
	for idx := range o.LineItems {
		total += o.LineItems[idx].QuantityReceived
	}
	return total
}

// TotalPaidAmount returns the amount paid summed across payments
func (o *PurchaseOrder) TotalPaidAmount() decimal.Decimal {
	total := decimal.Zero
	for idx := range o.Payments {
		total = total.Add(o.Payments[idx].AmountPaid)
	}
	return total
}

// ItemCount returns the number of line items
func (o *PurchaseOrder) ItemCount() int {
	return len(o.LineItems)
}

// CanModify returns true if the order is still editable
func (o *PurchaseOrder) CanModify() bool {
	return o.Status.CanEdit()
}

// IsTerminal returns true if the order reached a terminal status
func (o *PurchaseOrder) IsTerminal() bool {
	return o.Status.IsTerminal()
}
