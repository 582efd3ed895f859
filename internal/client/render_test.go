package client

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oksasatya/crateyy/internal/catalog"
	"github.com/oksasatya/crateyy/internal/domain/entity"
)

func TestPriceLabel(t *testing.T) {
	discounted := catalog.Tag(entity.Product{Price: entity.NewPrice(100), Discount: 20})
	require.Equal(t, "₹80.00 (₹100.00, -20%)", PriceLabel(discounted))

	plain := catalog.Tag(entity.Product{Price: entity.NewPrice(100)})
	require.Equal(t, "₹100.00", PriceLabel(plain))
}

func TestAdminRows(t *testing.T) {
	rows := AdminRows([]entity.Product{
		{ID: 1, Name: "Hoodie", Category: "new-drops", Type: "hoodies", Price: entity.NewPrice(100), Discount: 20},
		{ID: 2, Name: "Tee", Price: entity.NewPrice(40)},
	})
	require.Len(t, rows, 2)
	require.Equal(t, AdminRow{ID: 1, Name: "Hoodie", Category: "new-drops", Type: "hoodies", Price: "100.00", Discount: "20%", Final: "80.00"}, rows[0])
	require.Equal(t, "0%", rows[1].Discount)
	require.Equal(t, "40.00", rows[1].Final)
}

func TestRenderCards(t *testing.T) {
	var buf bytes.Buffer
	cards := Cards([]entity.Product{{ID: 7, Name: "Hoodie", Type: "hoodies", Price: entity.NewPrice(100), Discount: 20}})
	require.NoError(t, RenderCards(&buf, cards))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	require.True(t, strings.HasPrefix(lines[0], "ID"))
	require.Contains(t, lines[1], "Hoodie")
	require.Contains(t, lines[1], "₹80.00 (₹100.00, -20%)")
}

func TestRenderAdmin(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderAdmin(&buf, AdminRows([]entity.Product{{ID: 3, Name: "Cap", Price: entity.NewPrice(10), Discount: 5}})))
	out := buf.String()
	require.Contains(t, out, "DISCOUNT")
	require.Contains(t, out, "5%")
	require.Contains(t, out, "9.50")
}
