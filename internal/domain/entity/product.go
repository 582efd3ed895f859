package entity

import (
	"bytes"
	"encoding/json"
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// PlaceholderImage is used when a product is created without any image.
const PlaceholderImage = "https://via.placeholder.com/300?text=No+Image"

// Product is a catalog entry. ID is the externally visible numeric identifier;
// storage backends may keep their own internal keys next to it.
type Product struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Price     Price     `json:"price"`
	Discount  Percent   `json:"discount"`
	Category  string    `json:"category"`
	Type      string    `json:"type"`
	Image     string    `json:"image"`
	CreatedAt time.Time `json:"createdAt"`
}

// ProductPatch carries a partial update. A nil field means "keep the stored value".
type ProductPatch struct {
	Name     *string
	Price    *Price
	Discount *Percent
	Category *string
	Type     *string
	Image    *string
}

// Apply copies every present field of the patch onto p.
func (pt ProductPatch) Apply(p *Product) {
	if pt.Name != nil {
		p.Name = *pt.Name
	}
	if pt.Price != nil {
		p.Price = *pt.Price
	}
	if pt.Discount != nil {
		p.Discount = *pt.Discount
	}
	if pt.Category != nil {
		p.Category = *pt.Category
	}
	if pt.Type != nil {
		p.Type = *pt.Type
	}
	if pt.Image != nil {
		p.Image = *pt.Image
	}
}

var ErrInvalidPrice = errors.New("invalid price")

// Price is a currency amount. It is written as a JSON number but older
// records stored it as a display string ("₹1,299.00"), which is still accepted.
type Price struct {
	decimal.Decimal
}

func NewPrice(f float64) Price { return Price{decimal.NewFromFloat(f)} }

// ParsePrice accepts plain decimals and legacy currency strings. Only the
// currency symbol, thousands separators and spaces are stripped; anything
// else that is not a decimal literal is ErrInvalidPrice. Negative values
// parse so callers can report them as such.
func ParsePrice(s string) (Price, error) {
	cleaned := currencyDecorations.Replace(strings.TrimSpace(s))
	if !decimalLiteral.MatchString(cleaned) {
		return Price{}, ErrInvalidPrice
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return Price{}, ErrInvalidPrice
	}
	return Price{d}, nil
}

var (
	currencyDecorations = strings.NewReplacer("₹", "", "Rs.", "", "Rs", "", "INR", "", "$", "", ",", "", " ", "", "\u00a0", "")
	decimalLiteral      = regexp.MustCompile(`^-?(\d+(\.\d*)?|\.\d+)$`)
)

func (p Price) MarshalJSON() ([]byte, error) {
	return []byte(p.Decimal.String()), nil
}

func (p *Price) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		p.Decimal = decimal.Zero
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		// unreadable legacy values are kept as zero rather than failing the whole catalog
		parsed, err := ParsePrice(s)
		if err != nil {
			p.Decimal = decimal.Zero
			return nil
		}
		*p = parsed
		return nil
	}
	d, err := decimal.NewFromString(string(data))
	if err != nil {
		return err
	}
	p.Decimal = d
	return nil
}

// Percent is a whole-number discount. The admin form historically posted it
// as a string, so numeric strings and "" are accepted on decode.
type Percent int

func ParsePercent(s string) (Percent, error) {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	if s == "" {
		return 0, nil
	}
	if i, err := strconv.Atoi(s); err == nil {
		return Percent(i), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	return Percent(int(f)), nil
}

func (pc *Percent) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*pc = 0
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		v, err := ParsePercent(s)
		if err != nil {
			*pc = 0
			return nil
		}
		*pc = v
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*pc = Percent(int(f))
	return nil
}
