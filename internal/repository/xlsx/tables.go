package xlsx

import (
	"docextract/internal/domain"
)

// Logical tables of the layered store.
const (
	tableOrders              = "orders"
	tableOrderDetails        = "order_details"
	tableProducts            = "products"
	tableCustomers           = "customers"
	tableIndividualCustomers = "individual_customers"
	tableStoreCustomers      = "store_customers"
)

// Sheet names of the reference workbook.
const (
	SheetSalesOrderHeader    = "SalesOrderHeader"
	SheetSalesOrderDetail    = "SalesOrderDetail"
	SheetProduct             = "Product"
	SheetCustomers           = "Customers"
	SheetIndividualCustomers = "IndividualCustomers"
	SheetStoreCustomers      = "StoreCustomers"
)

// Sheet names of the extracted workbook.
const (
	SheetExtractedOrders       = "ExtractedOrders"
	SheetExtractedOrderDetails = "ExtractedOrderDetails"
)

var referenceSheets = map[string]string{
	tableOrders:              SheetSalesOrderHeader,
	tableOrderDetails:        SheetSalesOrderDetail,
	tableProducts:            SheetProduct,
	tableCustomers:           SheetCustomers,
	tableIndividualCustomers: SheetIndividualCustomers,
	tableStoreCustomers:      SheetStoreCustomers,
}

var extractedSheets = map[string]string{
	tableOrders:       SheetExtractedOrders,
	tableOrderDetails: SheetExtractedOrderDetails,
}

// ExtractedOrderColumns is the column layout of the ExtractedOrders sheet.
var ExtractedOrderColumns = []string{
	"SalesOrderID", "SalesOrderNumber", "OrderDate", "CustomerID",
	"SubTotal", "TaxAmt", "Freight", "TotalDue", "Status",
	"InvoiceNumber", "CompanyName", "ExtractedAt", "Confidence", "Provider",
}

// ExtractedDetailColumns is the column layout of the ExtractedOrderDetails sheet.
var ExtractedDetailColumns = []string{
	"SalesOrderDetailID", "SalesOrderID", "ProductID", "ProductNumber",
	"ProductName", "OrderQty", "UnitPrice", "LineTotal",
}

// Decoders accept both the reference and the extracted layouts; columns missing from a
// layout decode as zero values.

func decodeOrders(s *sheetRows, source domain.Source) ([]domain.OrderHeader, error) {
	if err := s.require("SalesOrderID"); err != nil {
		return nil, err
	}
	out := make([]domain.OrderHeader, 0, len(s.rows))
	err := s.each("SalesOrderID", func(row []string, id int64) {
		status, _ := s.int64(row, "Status")
		out = append(out, domain.OrderHeader{
			OrderID:       id,
			OrderNumber:   s.cell(row, "SalesOrderNumber"),
			OrderDate:     s.date(row, "OrderDate"),
			CustomerID:    s.optInt64(row, "CustomerID"),
			SubTotal:      s.float(row, "SubTotal"),
			TaxAmount:     s.float(row, "TaxAmt"),
			Freight:       s.float(row, "Freight"),
			TotalDue:      s.float(row, "TotalDue"),
			Status:        int(status),
			InvoiceNumber: s.cell(row, "InvoiceNumber"),
			CompanyName:   s.cell(row, "CompanyName"),
			ExtractedAt:   s.cell(row, "ExtractedAt"),
			Confidence:    s.optFloat(row, "Confidence"),
			Provider:      s.cell(row, "Provider"),
			Source:        source,
		})
	})
	return out, err
}

func decodeDetails(s *sheetRows, source domain.Source) ([]domain.OrderDetail, error) {
	if err := s.require("SalesOrderDetailID", "SalesOrderID"); err != nil {
		return nil, err
	}
	out := make([]domain.OrderDetail, 0, len(s.rows))
	err := s.each("SalesOrderDetailID", func(row []string, id int64) {
		orderID, _ := s.int64(row, "SalesOrderID")
		out = append(out, domain.OrderDetail{
			DetailID:      id,
			OrderID:       orderID,
			ProductID:     s.optInt64(row, "ProductID"),
			ProductNumber: s.cell(row, "ProductNumber"),
			ProductName:   s.cell(row, "ProductName"),
			OrderQty:      s.float(row, "OrderQty"),
			UnitPrice:     s.float(row, "UnitPrice"),
			LineTotal:     s.float(row, "LineTotal"),
			Source:        source,
		})
	})
	return out, err
}

func decodeProducts(s *sheetRows) ([]domain.Product, error) {
	if err := s.require("ProductID"); err != nil {
		return nil, err
	}
	out := make([]domain.Product, 0, len(s.rows))
	err := s.each("ProductID", func(row []string, id int64) {
		out = append(out, domain.Product{
			ProductID:            id,
			Name:                 s.cell(row, "Name"),
			ProductNumber:        s.cell(row, "ProductNumber"),
			Color:                s.cell(row, "Color"),
			StandardCost:         s.float(row, "StandardCost"),
			ListPrice:            s.float(row, "ListPrice"),
			Size:                 s.cell(row, "Size"),
			Weight:               s.optFloat(row, "Weight"),
			ProductSubcategoryID: s.optInt64(row, "ProductSubcategoryID"),
		})
	})
	return out, err
}

func decodeCustomers(s *sheetRows) ([]domain.Customer, error) {
	if err := s.require("CustomerID"); err != nil {
		return nil, err
	}
	out := make([]domain.Customer, 0, len(s.rows))
	err := s.each("CustomerID", func(row []string, id int64) {
		out = append(out, domain.Customer{
			CustomerID:    id,
			PersonID:      s.optInt64(row, "PersonID"),
			StoreID:       s.optInt64(row, "StoreID"),
			TerritoryID:   s.optInt64(row, "TerritoryID"),
			AccountNumber: s.cell(row, "AccountNumber"),
		})
	})
	return out, err
}

func decodeIndividualCustomers(s *sheetRows) ([]domain.IndividualCustomer, error) {
	if err := s.require("BusinessEntityID"); err != nil {
		return nil, err
	}
	out := make([]domain.IndividualCustomer, 0, len(s.rows))
	err := s.each("BusinessEntityID", func(row []string, id int64) {
		out = append(out, domain.IndividualCustomer{
			BusinessEntityID: id,
			FirstName:        s.cell(row, "FirstName"),
			LastName:         s.cell(row, "LastName"),
		})
	})
	return out, err
}

func decodeStoreCustomers(s *sheetRows) ([]domain.StoreCustomer, error) {
	if err := s.require("BusinessEntityID"); err != nil {
		return nil, err
	}
	out := make([]domain.StoreCustomer, 0, len(s.rows))
	err := s.each("BusinessEntityID", func(row []string, id int64) {
		out = append(out, domain.StoreCustomer{
			BusinessEntityID: id,
			Name:             s.cell(row, "Name"),
		})
	})
	return out, err
}

func encodeOrder(o *domain.OrderHeader) []interface{} {
	return []interface{}{
		o.OrderID, o.OrderNumber, optString(o.OrderDate), optInt(o.CustomerID),
		o.SubTotal, o.TaxAmount, o.Freight, o.TotalDue, o.Status,
		optString(o.InvoiceNumber), optString(o.CompanyName), optString(o.ExtractedAt),
		optFloat(o.Confidence), optString(o.Provider),
	}
}

func encodeDetail(d *domain.OrderDetail) []interface{} {
	return []interface{}{
		d.DetailID, d.OrderID, optInt(d.ProductID), optString(d.ProductNumber),
		optString(d.ProductName), d.OrderQty, d.UnitPrice, d.LineTotal,
	}
}
