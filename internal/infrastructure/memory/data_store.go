package memory

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/boutique-api/internal/domain/entity"
	"github.com/jhoicas/boutique-api/internal/domain/repository"
)

// DataStore datos de consulta de solo lectura. Se llena una vez con SeedDemo.
type DataStore struct {
	customers    []*entity.Customer
	orders       []*entity.Order
	invoices     []*entity.Invoice
	rawMaterials []*entity.RawMaterial
	staff        []*entity.Staff
	jobCards     []*entity.JobCard
	expenses     []*entity.Expense
}

var _ repository.DataRepository = (*DataStore)(nil)

func (d *DataStore) ListCustomers(context.Context) ([]*entity.Customer, error) {
	return d.customers, nil
}

func (d *DataStore) ListOrders(context.Context) ([]*entity.Order, error) { return d.orders, nil }

func (d *DataStore) ListInvoices(context.Context) ([]*entity.Invoice, error) {
	return d.invoices, nil
}

func (d *DataStore) ListRawMaterials(context.Context) ([]*entity.RawMaterial, error) {
	return d.rawMaterials, nil
}

func (d *DataStore) ListStaff(context.Context) ([]*entity.Staff, error) { return d.staff, nil }

func (d *DataStore) ListJobCards(context.Context) ([]*entity.JobCard, error) {
	return d.jobCards, nil
}

func (d *DataStore) ListExpenses(context.Context) ([]*entity.Expense, error) {
	return d.expenses, nil
}

func day(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t
}

func dayPtr(s string) *time.Time {
	t := day(s)
	return &t
}

// DemoProducts catálogo inicial de la boutique (mismo contenido que la migración seed).
func DemoProducts() []*entity.Product {
	return []*entity.Product{
		{ID: "P001", SKU: "KB-SILK-01", Name: "Kanjivaram Silk Saree", Category: "Saree", StockLevel: 12, Price: decimal.NewFromInt(12500)},
		{ID: "P002", SKU: "KUR-CTN-M", Name: "Block Print Cotton Kurti", Category: "Kurti", StockLevel: 45, Price: decimal.NewFromInt(1299)},
		{ID: "P003", SKU: "LEH-BRD-RD", Name: "Bridal Velvet Lehenga", Category: "Lehenga", StockLevel: 2, Price: decimal.NewFromInt(35000)},
		{ID: "P004", SKU: "DUP-CHI-05", Name: "Chiffon Phulkari Dupatta", Category: "Accessories", StockLevel: 25, Price: decimal.NewFromInt(899)},
	}
}

// SeedDemo carga el catálogo en products y devuelve el DataStore con los datos de demostración.
func SeedDemo(ctx context.Context, products *Store) (*DataStore, error) {
	for _, p := range DemoProducts() {
		if err := products.Create(ctx, p); err != nil {
			return nil, err
		}
	}
	now := time.Now().UTC()
	return &DataStore{
		customers: []*entity.Customer{
			{ID: "C001", Name: "Priya Sharma", Email: "priya@example.com", Phone: "9876543210", BranchID: "Mumbai", VIPStatus: true, LoyaltyPoints: 1500, CreatedAt: now},
			{ID: "C002", Name: "Rohan Verma", Email: "rohan@example.com", Phone: "8765432109", BranchID: "Delhi", LoyaltyPoints: 250, CreatedAt: now},
		},
		orders: []*entity.Order{
			{ID: "ORD-001", CustomerID: "C001", BranchID: "Mumbai", TotalAmount: decimal.NewFromInt(35000), Status: entity.OrderStatusDelivered, OrderDate: day("2024-07-20"),
				Items: []entity.OrderItem{{ID: "OI-001", OrderID: "ORD-001", ProductID: "P003", Quantity: 1, PriceAtPurchase: decimal.NewFromInt(35000)}}},
			{ID: "ORD-002", CustomerID: "C002", BranchID: "Delhi", TotalAmount: decimal.NewFromInt(12500), Status: entity.OrderStatusShipped, OrderDate: day("2024-07-21"),
				Items: []entity.OrderItem{{ID: "OI-002", OrderID: "ORD-002", ProductID: "P001", Quantity: 1, PriceAtPurchase: decimal.NewFromInt(12500)}}},
		},
		invoices: []*entity.Invoice{
			{ID: "INV-001", OrderID: "ORD-001", CustomerID: "C001", BranchID: "Mumbai", Amount: decimal.NewFromInt(35000), Status: "Paid", DueDate: dayPtr("2024-07-20"), CreatedAt: now},
		},
		rawMaterials: []*entity.RawMaterial{
			{ID: "RM-001", Name: "Pure Silk Fabric", Type: "Fabric", StockLevel: decimal.NewFromInt(150), Unit: "Meters", ReorderLevel: decimal.NewFromInt(50), CostPerUnit: decimal.NewFromInt(800), Supplier: "Silk House"},
			{ID: "RM-002", Name: "Gold Zari Thread", Type: "Thread", StockLevel: decimal.NewFromInt(45), Unit: "Spools", ReorderLevel: decimal.NewFromInt(10), CostPerUnit: decimal.NewFromInt(1200), Supplier: "Zari World"},
		},
		staff: []*entity.Staff{
			{ID: "S001", Name: "Rajesh Kumar", Role: "Master Tailor", BranchID: "Mumbai", Contact: "9988776655", Status: "Active", PerformanceRating: decimal.RequireFromString("4.8")},
			{ID: "S002", Name: "Sunita Devi", Role: "Sales Manager", BranchID: "Delhi", Contact: "8877665544", Status: "Active", PerformanceRating: decimal.RequireFromString("4.5")},
		},
		jobCards: []*entity.JobCard{
			{ID: "JC-001", OrderID: "ORD-001", AssignedTailorID: "S001", Status: "In Progress", Stage: "Stitching", StartDate: dayPtr("2024-07-21"), DueDate: dayPtr("2024-07-25"), Notes: "Custom fitting required"},
		},
		expenses: []*entity.Expense{
			{ID: "EXP-001", Category: "Utilities", Amount: decimal.NewFromInt(4500), Date: now, Description: "Electricity Bill - July", BranchID: "Mumbai", GSTInputCredit: decimal.Zero},
		},
	}, nil
}
