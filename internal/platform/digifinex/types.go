package digifinex

import "github.com/BrianChanLEE/bot/internal/domain"

// orderBookResponse is the body of GET /order_book. Asks and bids are lists
// of [price, volume] pairs; code is non-zero on application-level errors.
type orderBookResponse struct {
	Code int                 `json:"code"`
	Asks []domain.PriceLevel `json:"asks"`
	Bids []domain.PriceLevel `json:"bids"`
	Date int64               `json:"date"`
}

// batchNewResponse is the body of POST /spot/order/batch_new.
type batchNewResponse struct {
	Code     int      `json:"code"`
	OrderIDs []string `json:"order_ids"`
}
