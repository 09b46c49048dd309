package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	log "github.com/sirupsen/logrus"

	"github.com/salesdash/salesdash/api"
	"github.com/salesdash/salesdash/config"
	"github.com/salesdash/salesdash/mockapi"
	"github.com/salesdash/salesdash/models"
	"github.com/salesdash/salesdash/services"
	"github.com/salesdash/salesdash/store"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	cfg.ConfigureLogging()

	switch os.Args[1] {
	case "login":
		runLogin(cfg, os.Args[2:])
	case "logout":
		runLogout(cfg)
	case "whoami":
		runWhoami(cfg)
	case "list":
		runList(cfg, os.Args[2:])
	case "get":
		runGet(cfg, os.Args[2:])
	case "create":
		runCreate(cfg, os.Args[2:])
	case "update":
		runUpdate(cfg, os.Args[2:])
	case "delete":
		runDelete(cfg, os.Args[2:])
	case "mockapi":
		runMockAPI(cfg, os.Args[2:])
	default:
		fmt.Printf("unknown command %q\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`usage: salesdash <command> [flags]

commands:
  login    -username <u> -password <p>   Sign in and persist the session
  logout                                 Sign out and clear the session
  whoami                                 Show the signed-in user
  list     [filter flags]                List orders
  get      -id <n>                       Show one order with its line items
  create   -file <path>                  Create an order from a JSON file
  update   -id <n> -file <path>          Replace an order from a JSON file
  delete   -id <n>                       Delete an order
  mockapi  [-seed]                       Run the development backend`)
}

// app wires the client, gateways and stores together for one CLI invocation
type app struct {
	orders *store.OrderStore
	auth   *store.AuthStore
}

func newApp(cfg *config.Config) *app {
	client := api.NewClient(cfg.APIBaseURL, cfg.Timeout())
	sessions := store.NewFileSessionStorage(cfg.SessionFile)

	return &app{
		orders: store.NewOrderStore(services.NewOrderService(client), cfg.PageSize),
		auth:   store.NewAuthStore(services.NewAuthService(client), client, sessions),
	}
}

// requireLogin validates the persisted session against the backend before
// any order command runs. An expired token fails here, not halfway through.
func requireLogin(a *app) {
	a.auth.CheckAuth()
	if !a.auth.IsAuthenticated() {
		fmt.Fprintln(os.Stderr, "Not logged in. Run 'salesdash login' first.")
		os.Exit(1)
	}
}

func runLogin(cfg *config.Config, args []string) {
	loginCmd := flag.NewFlagSet("login", flag.ExitOnError)
	username := loginCmd.String("username", "", "Account username")
	password := loginCmd.String("password", "", "Account password")
	loginCmd.Parse(args)

	if *username == "" || *password == "" {
		fmt.Println("username and password are required")
		loginCmd.PrintDefaults()
		os.Exit(1)
	}

	a := newApp(cfg)
	if err := a.auth.Login(*username, *password); err != nil {
		fmt.Fprintf(os.Stderr, "Login failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Logged in as %s (%s)\n", a.auth.User().Name, a.auth.User().Role)
}

func runLogout(cfg *config.Config) {
	a := newApp(cfg)
	a.auth.Logout()
	fmt.Println("Logged out")
}

func runWhoami(cfg *config.Config) {
	a := newApp(cfg)
	requireLogin(a)

	user := a.auth.User()
	fmt.Printf("%s <%s> role=%s id=%s\n", user.Name, user.Email, user.Role, user.ID)
}

func runList(cfg *config.Config, args []string) {
	listCmd := flag.NewFlagSet("list", flag.ExitOnError)
	customer := listCmd.String("customer", "", "Filter by customer name substring")
	status := listCmd.String("status", "", "Filter by order status")
	product := listCmd.String("product", "", "Filter by product code on any line item")
	start := listCmd.String("start", "", "Earliest order date (YYYY-MM-DD)")
	end := listCmd.String("end", "", "Latest order date (YYYY-MM-DD)")
	page := listCmd.Int("page", 0, "Page number")
	pageSize := listCmd.Int("page-size", 0, "Page size")
	listCmd.Parse(args)

	a := newApp(cfg)
	requireLogin(a)

	err := a.orders.FetchOrders(models.OrderFilters{
		CustomerName: *customer,
		Status:       *status,
		ProductCode:  *product,
		StartDate:    *start,
		EndDate:      *end,
		PageNumber:   *page,
		PageSize:     *pageSize,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, a.orders.LastError())
		os.Exit(1)
	}

	if err := renderOrders(a.orders.Orders(), a.orders.Pagination()); err != nil {
		log.Fatalf("Failed to render orders: %v", err)
	}
}

func runGet(cfg *config.Config, args []string) {
	getCmd := flag.NewFlagSet("get", flag.ExitOnError)
	id := getCmd.Uint("id", 0, "Order id")
	getCmd.Parse(args)
	if *id == 0 {
		fmt.Println("id is required")
		os.Exit(1)
	}

	a := newApp(cfg)
	requireLogin(a)

	if err := a.orders.FetchOrderByID(uint(*id)); err != nil {
		fmt.Fprintln(os.Stderr, a.orders.LastError())
		os.Exit(1)
	}
	if err := renderOrder(a.orders.CurrentOrder()); err != nil {
		log.Fatalf("Failed to render order: %v", err)
	}
}

func runCreate(cfg *config.Config, args []string) {
	createCmd := flag.NewFlagSet("create", flag.ExitOnError)
	file := createCmd.String("file", "", "Path to a JSON file with the order body")
	createCmd.Parse(args)
	if *file == "" {
		fmt.Println("file is required")
		os.Exit(1)
	}

	var req models.CreateOrderRequest
	if err := readJSONFile(*file, &req); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read order file: %v\n", err)
		os.Exit(1)
	}

	a := newApp(cfg)
	requireLogin(a)

	if err := a.orders.CreateOrder(req); err != nil {
		fmt.Fprintln(os.Stderr, a.orders.LastError())
		os.Exit(1)
	}
	fmt.Println("Order created")
	if err := renderOrders(a.orders.Orders(), a.orders.Pagination()); err != nil {
		log.Fatalf("Failed to render orders: %v", err)
	}
}

func runUpdate(cfg *config.Config, args []string) {
	updateCmd := flag.NewFlagSet("update", flag.ExitOnError)
	id := updateCmd.Uint("id", 0, "Order id")
	file := updateCmd.String("file", "", "Path to a JSON file with the order body")
	updateCmd.Parse(args)
	if *id == 0 || *file == "" {
		fmt.Println("id and file are required")
		os.Exit(1)
	}

	var req models.UpdateOrderRequest
	if err := readJSONFile(*file, &req); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read order file: %v\n", err)
		os.Exit(1)
	}

	a := newApp(cfg)
	requireLogin(a)

	if err := a.orders.UpdateOrder(uint(*id), req); err != nil {
		fmt.Fprintln(os.Stderr, a.orders.LastError())
		os.Exit(1)
	}
	fmt.Printf("Order %d updated\n", *id)
}

func runDelete(cfg *config.Config, args []string) {
	deleteCmd := flag.NewFlagSet("delete", flag.ExitOnError)
	id := deleteCmd.Uint("id", 0, "Order id")
	deleteCmd.Parse(args)
	if *id == 0 {
		fmt.Println("id is required")
		os.Exit(1)
	}

	a := newApp(cfg)
	requireLogin(a)

	if err := a.orders.DeleteOrder(uint(*id)); err != nil {
		fmt.Fprintln(os.Stderr, a.orders.LastError())
		os.Exit(1)
	}
	fmt.Printf("Order %d deleted\n", *id)
}

func runMockAPI(cfg *config.Config, args []string) {
	mockCmd := flag.NewFlagSet("mockapi", flag.ExitOnError)
	seed := mockCmd.Bool("seed", false, "Seed a demo account and orders")
	mockCmd.Parse(args)

	if err := config.ConnectDatabase(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	db := config.GetDB()
	if err := mockapi.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	if *seed {
		if err := mockapi.Seed(db); err != nil {
			log.Fatalf("Failed to seed database: %v", err)
		}
		log.Info("Seeded demo account admin/admin123")
	}

	router := mockapi.New(db).Router()
	log.Infof("Mock backend listening on http://localhost:%s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func readJSONFile(path string, out interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

func renderOrders(orders []models.Order, pagination models.Pagination) error {
	table := tablewriter.NewTable(os.Stdout)
	table.Header([]string{"ID", "Customer", "Date", "Status", "Items", "Total", "Created By"})
	for _, order := range orders {
		if err := table.Append(orderRow(order)); err != nil {
			return err
		}
	}
	if err := table.Render(); err != nil {
		return err
	}
	fmt.Println(paginationLine(pagination))
	return nil
}

func renderOrder(order *models.Order) error {
	if order == nil {
		fmt.Println("No order loaded")
		return nil
	}

	fmt.Printf("Order #%d  %s <%s>\n", order.ID, order.CustomerName, order.CustomerEmail)
	fmt.Printf("Date: %s  Status: %s  Created by: %s\n",
		order.OrderDate.Format("2006-01-02"), order.Status, order.CreatedBy)

	table := tablewriter.NewTable(os.Stdout)
	table.Header([]string{"Product", "Code", "Qty", "Unit Price", "Subtotal"})
	for _, detail := range order.OrderDetails {
		row := []string{
			detail.ProductName,
			detail.ProductCode,
			strconv.Itoa(detail.Quantity),
			formatMoney(detail.UnitPrice),
			formatMoney(detail.Subtotal),
		}
		if err := table.Append(row); err != nil {
			return err
		}
	}
	if err := table.Render(); err != nil {
		return err
	}
	fmt.Printf("Total: %s\n", formatMoney(order.Total))
	return nil
}

func orderRow(order models.Order) []string {
	return []string{
		strconv.FormatUint(uint64(order.ID), 10),
		order.CustomerName,
		order.OrderDate.Format("2006-01-02"),
		order.Status,
		strconv.Itoa(len(order.OrderDetails)),
		formatMoney(order.Total),
		order.CreatedBy,
	}
}

func paginationLine(p models.Pagination) string {
	return fmt.Sprintf("Page %d of %d (%d orders, page size %d)",
		p.PageNumber, p.TotalPages, p.TotalCount, p.PageSize)
}

func formatMoney(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
