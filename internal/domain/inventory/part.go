package inventory

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/techrefresher/backend/internal/domain/shared"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var slugStripper = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// PartSlug derives the deterministic identity key for a part from its
// brand/model/partName/color attributes. Two harvests of the same part from
// identical devices produce the same slug, so upsert-by-slug increments the
// existing row instead of creating a duplicate.
func PartSlug(brand, model, partName, color string) string {
	segments := []string{brand, model, partName, color}
	cleaned := make([]string, 0, len(segments))
	for _, segment := range segments {
		if stripped, _, err := transform.String(slugStripper, segment); err == nil {
			segment = stripped
		}
		segment = strings.ToLower(strings.TrimSpace(segment))
		var b strings.Builder
		lastDash := true
		for _, r := range segment {
			switch {
			case unicode.IsLetter(r) || unicode.IsDigit(r):
				b.WriteRune(r)
				lastDash = false
			case !lastDash:
				b.WriteByte('-')
				lastDash = true
			}
		}
		cleaned = append(cleaned, strings.Trim(b.String(), "-"))
	}
	return strings.Join(cleaned, "-")
}

// Part represents a stocked spare part carried at weighted-average cost.
// Quantity and totalValue are the stored facts; unit cost is always derived
// as totalValue/quantity and treated as zero when quantity is zero.
type Part struct {
	shared.GroupAggregateRoot
	Slug       string          `gorm:"type:varchar(400);not null;uniqueIndex:idx_parts_group_slug,priority:2"`
	Brand      string          `gorm:"type:varchar(100);not null;index"`
	Model      string          `gorm:"type:varchar(100);not null;index"`
	PartName   string          `gorm:"type:varchar(150);not null"`
	Color      string          `gorm:"type:varchar(50)"`
	Quantity   int64           `gorm:"not null;default:0"`
	TotalValue decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (Part) TableName() string {
	return "parts"
}

// NewPart creates a new empty part record
func NewPart(groupID uuid.UUID, brand, model, partName, color string) (*Part, error) {
	if brand == "" {
		return nil, shared.NewDomainError("INVALID_BRAND", "Brand cannot be empty")
	}
	if model == "" {
		return nil, shared.NewDomainError("INVALID_MODEL", "Model cannot be empty")
	}
	if partName == "" {
		return nil, shared.NewDomainError("INVALID_PART_NAME", "Part name cannot be empty")
	}

	return &Part{
		GroupAggregateRoot: shared.NewGroupAggregateRoot(groupID),
		Slug:               PartSlug(brand, model, partName, color),
		Brand:              brand,
		Model:              model,
		PartName:           partName,
		Color:              color,
		Quantity:           0,
		TotalValue:         decimal.Zero,
	}, nil
}

// UnitCost returns the current weighted-average unit cost
func (p *Part) UnitCost() decimal.Decimal {
	if p.Quantity <= 0 {
		return decimal.Zero
	}
	return p.TotalValue.Div(decimal.NewFromInt(p.Quantity)).Round(4)
}

// AddStock adds units at a given per-unit cost, raising totalValue by
// qty times unitCost. Called on PO receive, harvest, and manual adjustment.
func (p *Part) AddStock(quantity int64, unitCost decimal.Decimal) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitCost.IsNegative() {
		return shared.NewDomainError("INVALID_COST", "Unit cost cannot be negative")
	}

	p.Quantity += quantity
	p.TotalValue = p.TotalValue.Add(unitCost.Mul(decimal.NewFromInt(quantity)))
	p.Touch()

	p.AddDomainEvent(NewPartStockAddedEvent(p, quantity, unitCost))
	return nil
}

// Consume removes units at the current average cost, subtracting
// n times the current unit cost from totalValue.
func (p *Part) Consume(quantity int64) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if quantity > p.Quantity {
		return shared.NewDomainError("INSUFFICIENT_STOCK",
			fmt.Sprintf("Cannot consume %d units of %q, only %d in stock", quantity, p.PartName, p.Quantity))
	}

	unitCost := p.UnitCost()
	p.Quantity -= quantity
	p.TotalValue = p.TotalValue.Sub(unitCost.Mul(decimal.NewFromInt(quantity)))
	if p.Quantity == 0 {
		// avoid a residual rounding remainder on an empty part
		p.TotalValue = decimal.Zero
	}
	p.Touch()

	p.AddDomainEvent(NewPartConsumedEvent(p, quantity, unitCost))
	return nil
}

// Adjust applies a manual quantity delta. Positive deltas add stock at the
// given unit cost; negative deltas consume at the current average.
func (p *Part) Adjust(delta int64, unitCost decimal.Decimal) error {
	switch {
	case delta > 0:
		return p.AddStock(delta, unitCost)
	case delta < 0:
		return p.Consume(-delta)
	default:
		return shared.NewDomainError("INVALID_QUANTITY", "Adjustment delta cannot be zero")
	}
}

// Rename updates the descriptive attributes and re-derives the slug
func (p *Part) Rename(brand, model, partName, color string) error {
	if brand == "" {
		return shared.NewDomainError("INVALID_BRAND", "Brand cannot be empty")
	}
	if model == "" {
		return shared.NewDomainError("INVALID_MODEL", "Model cannot be empty")
	}
	if partName == "" {
		return shared.NewDomainError("INVALID_PART_NAME", "Part name cannot be empty")
	}
	p.Brand = brand
	p.Model = model
	p.PartName = partName
	p.Color = color
	p.Slug = PartSlug(brand, model, partName, color)
	p.Touch()
	return nil
}
