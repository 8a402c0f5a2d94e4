package domain

// OrderHeader is the canonical sales order header row. OrderID is unique across the
// reference and extracted datasets.
type OrderHeader struct {
	OrderID       int64    `json:"order_id"`
	OrderNumber   string   `json:"order_number"`
	OrderDate     string   `json:"order_date"`
	CustomerID    *int64   `json:"customer_id"`
	SubTotal      float64  `json:"subtotal"`
	TaxAmount     float64  `json:"tax_amount"`
	Freight       float64  `json:"freight"`
	TotalDue      float64  `json:"total_due"`
	Status        int      `json:"status"`
	InvoiceNumber string   `json:"invoice_number,omitempty"`
	CompanyName   string   `json:"company_name,omitempty"`
	ExtractedAt   string   `json:"extracted_at,omitempty"`
	Confidence    *float64 `json:"confidence,omitempty"`
	Provider      string   `json:"provider,omitempty"`
	Source        Source   `json:"source,omitempty"`
}

// OrderDetail is the canonical sales order line row. ProductNumber and ProductName hold
// the raw item number and description read from the invoice until a product is matched.
type OrderDetail struct {
	DetailID      int64   `json:"detail_id"`
	OrderID       int64   `json:"order_id"`
	ProductID     *int64  `json:"product_id"`
	ProductNumber string  `json:"product_number,omitempty"`
	ProductName   string  `json:"product_name,omitempty"`
	OrderQty      float64 `json:"order_qty"`
	UnitPrice     float64 `json:"unit_price"`
	LineTotal     float64 `json:"line_total"`
	Source        Source  `json:"source,omitempty"`
}

// Product is a reference catalogue entry.
type Product struct {
	ProductID            int64    `json:"product_id"`
	Name                 string   `json:"name"`
	ProductNumber        string   `json:"product_number"`
	Color                string   `json:"color,omitempty"`
	StandardCost         float64  `json:"standard_cost"`
	ListPrice            float64  `json:"list_price"`
	Size                 string   `json:"size,omitempty"`
	Weight               *float64 `json:"weight,omitempty"`
	ProductSubcategoryID *int64   `json:"product_subcategory_id,omitempty"`
}

// Customer is a reference customer account.
type Customer struct {
	CustomerID    int64  `json:"customer_id"`
	PersonID      *int64 `json:"person_id,omitempty"`
	StoreID       *int64 `json:"store_id,omitempty"`
	TerritoryID   *int64 `json:"territory_id,omitempty"`
	AccountNumber string `json:"account_number,omitempty"`
}

// IndividualCustomer is a person customer from the reference dataset.
type IndividualCustomer struct {
	BusinessEntityID int64  `json:"business_entity_id"`
	FirstName        string `json:"first_name"`
	LastName         string `json:"last_name"`
}

// StoreCustomer is a store (reseller) customer from the reference dataset.
type StoreCustomer struct {
	BusinessEntityID int64  `json:"business_entity_id"`
	Name             string `json:"name"`
}

// CustomerMatch is one result of a customer name search.
type CustomerMatch struct {
	Type             CustomerType `json:"type"`
	Name             string       `json:"name"`
	BusinessEntityID int64        `json:"business_entity_id"`
}

// OrderQuery selects a page of order headers.
type OrderQuery struct {
	Page       int
	PerPage    int
	CustomerID *int64
	Source     Source
}

// StoreStats summarizes record counts of the order store.
type StoreStats struct {
	Orders                int    `json:"orders"`
	ReferenceOrders       int    `json:"reference_orders"`
	ExtractedOrders       int    `json:"extracted_orders"`
	OrderDetails          int    `json:"order_details"`
	ExtractedOrderDetails int    `json:"extracted_order_details"`
	Products              int    `json:"products"`
	Customers             int    `json:"customers"`
	ReferenceFile         string `json:"reference_file"`
	ExtractedFile         string `json:"extracted_file"`
	ReferenceExists       bool   `json:"reference_exists"`
	ExtractedExists       bool   `json:"extracted_exists"`
}

// ProgressEvent reports the state of one step of a staged upload.
type ProgressEvent struct {
	Step    StreamStep `json:"step"`
	Status  StepStatus `json:"status"`
	Message string     `json:"message,omitempty"`
}

// ErrorBody is a code/message pair reported to clients.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
