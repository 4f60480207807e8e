package catalog

// StockStatus is the derived stock tag of a canonical variant
type StockStatus string

const (
	StockStatusInStock    StockStatus = "in_stock"
	StockStatusLowStock   StockStatus = "low_stock"
	StockStatusOutOfStock StockStatus = "out_of_stock"
)

// EvaluateStockStatus derives a stock status from a quantity and threshold.
// Zero quantity is out of stock, a quantity at or under the threshold is
// low stock, anything above is in stock.
func EvaluateStockStatus(quantity, threshold int64) StockStatus {
	switch {
	case quantity <= 0:
		return StockStatusOutOfStock
	case quantity <= threshold:
		return StockStatusLowStock
	default:
		return StockStatusInStock
	}
}
