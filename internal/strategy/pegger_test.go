package strategy

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/BrianChanLEE/bot/internal/domain"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func level(price, volume string) domain.PriceLevel {
	return domain.PriceLevel{Price: dec(price), Volume: dec(volume)}
}

func book(asks, bids []domain.PriceLevel) domain.OrderbookSnapshot {
	return domain.OrderbookSnapshot{Symbol: "IBTC_USDT", Asks: asks, Bids: bids}
}

func params(target, quantity string) domain.MarketParams {
	return domain.MarketParams{TargetPrice: dec(target), Quantity: dec(quantity)}
}

func order(side domain.OrderSide, amount, price string) domain.Order {
	return domain.Order{Side: side, Amount: dec(amount), Price: dec(price)}
}

func TestDecide(t *testing.T) {
	tests := []struct {
		name   string
		book   domain.OrderbookSnapshot
		params domain.MarketParams
		want   []domain.Order
	}{
		{
			name: "ask at target, quantity within volume",
			book: book(
				[]domain.PriceLevel{level("0.100", "500")},
				[]domain.PriceLevel{level("0.099", "200")},
			),
			params: params("0.100", "80"),
			want: []domain.Order{
				order(domain.OrderSideBuy, "80", "0.100"),
				order(domain.OrderSideSell, "80", "0.100"),
			},
		},
		{
			name: "ask at target, buy capped to visible volume",
			book: book(
				[]domain.PriceLevel{level("0.100", "50")},
				[]domain.PriceLevel{level("0.099", "200")},
			),
			params: params("0.100", "80"),
			want: []domain.Order{
				order(domain.OrderSideBuy, "50", "0.100"),
				order(domain.OrderSideSell, "80", "0.100"),
			},
		},
		{
			name: "cheaper ask below target, uncapped",
			book: book(
				[]domain.PriceLevel{level("0.099", "40")},
				[]domain.PriceLevel{level("0.098", "10")},
			),
			params: params("0.100", "10"),
			want: []domain.Order{
				order(domain.OrderSideBuy, "10", "0.100"),
				order(domain.OrderSideSell, "10", "0.100"),
			},
		},
		{
			name: "cheaper ask below target, buy crosses at ask price",
			book: book(
				[]domain.PriceLevel{level("0.099", "40")},
				[]domain.PriceLevel{level("0.098", "10")},
			),
			params: params("0.100", "120"),
			want: []domain.Order{
				order(domain.OrderSideBuy, "40", "0.099"),
				order(domain.OrderSideSell, "120", "0.100"),
			},
		},
		{
			name: "ask above target, bid at target, sell capped at target price",
			book: book(
				[]domain.PriceLevel{level("0.105", "30")},
				[]domain.PriceLevel{level("0.100", "25")},
			),
			params: params("0.100", "90"),
			want: []domain.Order{
				order(domain.OrderSideSell, "25", "0.100"),
				order(domain.OrderSideBuy, "90", "0.100"),
			},
		},
		{
			name: "ask above target, bid above target, lone capped sell",
			book: book(
				[]domain.PriceLevel{level("0.105", "30")},
				[]domain.PriceLevel{level("0.103", "10")},
			),
			params: params("0.101", "500"),
			want: []domain.Order{
				order(domain.OrderSideSell, "10", "0.103"),
			},
		},
		{
			name: "ask above target, bid above target, quantity within bid volume",
			book: book(
				[]domain.PriceLevel{level("0.105", "30")},
				[]domain.PriceLevel{level("0.103", "400")},
			),
			params: params("0.101", "300"),
			want: []domain.Order{
				order(domain.OrderSideSell, "300", "0.101"),
			},
		},
		{
			name: "book straddles target, both sides posted unchanged",
			book: book(
				[]domain.PriceLevel{level("0.102", "30")},
				[]domain.PriceLevel{level("0.099", "5")},
			),
			params: params("0.100", "777"),
			want: []domain.Order{
				order(domain.OrderSideSell, "777", "0.100"),
				order(domain.OrderSideBuy, "777", "0.100"),
			},
		},
		{
			name: "min ask and max bid found among unsorted levels",
			book: book(
				[]domain.PriceLevel{level("0.120", "5"), level("0.100", "50"), level("0.110", "7")},
				[]domain.PriceLevel{level("0.090", "9"), level("0.099", "200"), level("0.095", "3")},
			),
			params: params("0.100", "80"),
			want: []domain.Order{
				order(domain.OrderSideBuy, "50", "0.100"),
				order(domain.OrderSideSell, "80", "0.100"),
			},
		},
		{
			name: "zero-volume best ask caps the buy to zero",
			book: book(
				[]domain.PriceLevel{level("0.100", "0")},
				[]domain.PriceLevel{level("0.099", "10")},
			),
			params: params("0.100", "80"),
			want: []domain.Order{
				order(domain.OrderSideBuy, "0", "0.100"),
				order(domain.OrderSideSell, "80", "0.100"),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Decide(tt.book, tt.params)
			require.Len(t, got, len(tt.want))
			for i := range tt.want {
				require.Equal(t, tt.want[i].Side, got[i].Side, "order %d side", i)
				require.True(t, tt.want[i].Amount.Equal(got[i].Amount),
					"order %d amount: want %s, got %s", i, tt.want[i].Amount, got[i].Amount)
				require.True(t, tt.want[i].Price.Equal(got[i].Price),
					"order %d price: want %s, got %s", i, tt.want[i].Price, got[i].Price)
				require.False(t, got[i].PostOnly, "order %d post_only", i)
			}
		})
	}
}

func TestDecideIsPure(t *testing.T) {
	b := book(
		[]domain.PriceLevel{level("0.100", "50")},
		[]domain.PriceLevel{level("0.099", "200")},
	)
	p := params("0.100", "80")

	first := Decide(b, p)
	second := Decide(b, p)
	require.Equal(t, first, second)
}

func TestDecideTieBreakFirstOccurrence(t *testing.T) {
	// Two asks share the minimum price; the first one's volume must win.
	b := book(
		[]domain.PriceLevel{level("0.100", "7"), level("0.100", "99")},
		[]domain.PriceLevel{level("0.099", "1"), level("0.099", "88")},
	)
	got := Decide(b, params("0.100", "50"))
	require.Len(t, got, 2)
	require.True(t, got[0].Amount.Equal(dec("7")))
}
