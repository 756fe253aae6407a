// Package schema declares the star-schema contract of the warehouse sink:
// the four tables, their ordered columns, and their surrogate keys. Storage
// backends derive DDL from these definitions and the load stage derives its
// column alignment from them, so the contract lives in one place.
package schema

// Column types understood by the storage backends.
const (
	TypeText      = "text"
	TypeInt       = "int"
	TypeFloat     = "float"
	TypeBool      = "bool"
	TypeDate      = "date"
	TypeTimestamp = "timestamp"
)

// Column is one sink column with its logical type.
type Column struct {
	Name string
	Type string
}

// Table describes one sink table. Key names the sink-assigned surrogate key
// column; it is empty for the fact table, which carries no surrogate key of
// its own. Columns excludes the key: the sink populates it at insert time
// and it must never be supplied by the loader.
type Table struct {
	Name    string
	Key     string
	Columns []Column
}

// ColumnNames returns the insertable column names in declared order.
func (t Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// DimCustomers is the customer dimension.
var DimCustomers = Table{
	Name: "dim_customers",
	Key:  "customer_key",
	Columns: []Column{
		{"customer_id", TypeText},
		{"customer_city", TypeText},
		{"customer_state", TypeText},
		{"customer_zip_code_prefix", TypeText},
	},
}

// DimProducts is the product dimension. The numeric attributes are floats:
// median fills produce fractional values, as do sources with gaps.
var DimProducts = Table{
	Name: "dim_products",
	Key:  "product_key",
	Columns: []Column{
		{"product_id", TypeText},
		{"product_category_name", TypeText},
		{"product_name_length", TypeFloat},
		{"product_description_length", TypeFloat},
		{"product_photos_qty", TypeFloat},
		{"product_weight_g", TypeFloat},
		{"product_length_cm", TypeFloat},
		{"product_height_cm", TypeFloat},
		{"product_width_cm", TypeFloat},
	},
}

// DimDate is the synthesized calendar dimension.
var DimDate = Table{
	Name: "dim_date",
	Key:  "date_key",
	Columns: []Column{
		{"date", TypeDate},
		{"year", TypeInt},
		{"quarter", TypeInt},
		{"month", TypeInt},
		{"month_name", TypeText},
		{"day", TypeInt},
		{"day_of_week", TypeInt},
		{"day_name", TypeText},
		{"week_of_year", TypeInt},
		{"is_weekend", TypeBool},
	},
}

// FactOrders is the order-line fact table. Every row references one customer,
// one product, and one calendar day by surrogate key.
var FactOrders = Table{
	Name: "fact_orders",
	Columns: []Column{
		{"order_id", TypeText},
		{"customer_key", TypeInt},
		{"product_key", TypeInt},
		{"order_date_key", TypeInt},
		{"order_item_id", TypeInt},
		{"price", TypeFloat},
		{"freight_value", TypeFloat},
		{"order_status", TypeText},
		{"seller_id", TypeText},
		{"order_purchase_timestamp", TypeTimestamp},
		{"order_approved_at", TypeTimestamp},
		{"order_delivered_carrier_date", TypeTimestamp},
		{"order_delivered_customer_date", TypeTimestamp},
		{"order_estimated_delivery_date", TypeTimestamp},
	},
}

// Warehouse lists every sink table in load-dependency order: all dimensions
// strictly before the fact table.
var Warehouse = []Table{DimCustomers, DimProducts, DimDate, FactOrders}
