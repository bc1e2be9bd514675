package checkout

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
	"github.com/vladislavdragonenkov/storefront/internal/storage/memory"
)

func newTestEngine(t *testing.T, store *memory.Store) *Engine {
	t.Helper()
	return NewEngine(
		memory.NewCartRepository(store),
		memory.NewOrderRepository(store),
		memory.NewCheckoutStore(store),
		memory.NewOutboxRepository(store),
		nil,
	)
}

func seedCatalog(t *testing.T, store *memory.Store) {
	t.Helper()
	if err := memory.NewCategoryRepository(store).Create(domain.Category{
		ID: "cat-1", Name: "Обувь", IsActive: true,
	}); err != nil {
		t.Fatalf("seed category: %v", err)
	}
	discounted := int64(800)
	products := []domain.Product{
		{ID: "p-1", Name: "Кеды", PriceMinor: 1000, StockQuantity: 10, IsActive: true, CategoryID: "cat-1"},
		{ID: "p-2", Name: "Ботинки", PriceMinor: 1500, DiscountedPriceMinor: &discounted, StockQuantity: 5, IsActive: true, CategoryID: "cat-1"},
	}
	repo := memory.NewProductRepository(store)
	for _, p := range products {
		if err := repo.Create(p); err != nil {
			t.Fatalf("seed product %s: %v", p.ID, err)
		}
	}
}

func fillCart(t *testing.T, store *memory.Store, userID string, lines map[string]int32) {
	t.Helper()
	repo := memory.NewCartRepository(store)
	for productID, qty := range lines {
		if _, err := repo.Upsert(domain.CartLine{UserID: userID, ProductID: productID, Qty: qty}); err != nil {
			t.Fatalf("fill cart %s: %v", productID, err)
		}
	}
}

func placeInput(userID string) PlaceOrderInput {
	return PlaceOrderInput{
		UserID:          userID,
		ShippingAddress: "ул. Ленина, 1",
		PhoneNumber:     "+70000000000",
	}
}

func TestPlaceOrder_EmptyCart(t *testing.T) {
	engine := newTestEngine(t, memory.NewStore())

	_, err := engine.PlaceOrder(placeInput("user-1"))
	if !errors.Is(err, domain.ErrEmptyCart) {
		t.Fatalf("err = %v, want ErrEmptyCart", err)
	}
}

func TestPlaceOrder_FreezesDiscountedPriceAndTotals(t *testing.T) {
	store := memory.NewStore()
	seedCatalog(t, store)
	fillCart(t, store, "user-1", map[string]int32{"p-1": 2, "p-2": 1})
	engine := newTestEngine(t, store)

	order, err := engine.PlaceOrder(placeInput("user-1"))
	if err != nil {
		t.Fatalf("place order: %v", err)
	}

	// 2 * 1000 по базовой цене + 1 * 800 по акционной.
	if order.TotalAmountMinor != 2800 {
		t.Errorf("total = %d, want 2800", order.TotalAmountMinor)
	}
	if order.Status != domain.OrderStatusPending {
		t.Errorf("status = %s, want pending", order.Status)
	}
	if !strings.HasPrefix(order.OrderNumber, "ORD-") {
		t.Errorf("order number %q lacks ORD- prefix", order.OrderNumber)
	}
	for _, item := range order.Items {
		switch item.ProductID {
		case "p-1":
			if item.UnitPriceMinor != 1000 || item.TotalPriceMinor != 2000 {
				t.Errorf("p-1 item = %+v, want unit 1000 total 2000", item)
			}
		case "p-2":
			if item.UnitPriceMinor != 800 || item.TotalPriceMinor != 800 {
				t.Errorf("p-2 item = %+v, want frozen discounted price 800", item)
			}
		default:
			t.Errorf("unexpected item for product %s", item.ProductID)
		}
	}

	// Корзина после оформления пуста.
	views, err := memory.NewCartRepository(store).ListWithProducts("user-1")
	if err != nil {
		t.Fatalf("list cart: %v", err)
	}
	if len(views) != 0 {
		t.Errorf("cart lines after checkout = %d, want 0", len(views))
	}

	// Остатки списаны.
	p1, err := memory.NewProductRepository(store).Get("p-1", true)
	if err != nil {
		t.Fatalf("get p-1: %v", err)
	}
	if p1.StockQuantity != 8 {
		t.Errorf("p-1 stock = %d, want 8", p1.StockQuantity)
	}
}

func TestPlaceOrder_LaterPriceChangeLeavesOrderUntouched(t *testing.T) {
	store := memory.NewStore()
	seedCatalog(t, store)
	fillCart(t, store, "user-1", map[string]int32{"p-1": 2, "p-2": 1})
	engine := newTestEngine(t, store)

	order, err := engine.PlaceOrder(placeInput("user-1"))
	if err != nil {
		t.Fatalf("place order: %v", err)
	}

	// Подорожание товара и снятие скидки после оформления.
	products := memory.NewProductRepository(store)
	p1, err := products.Get("p-1", true)
	if err != nil {
		t.Fatalf("get p-1: %v", err)
	}
	p1.PriceMinor = 5000
	if err := products.Update(p1); err != nil {
		t.Fatalf("update p-1: %v", err)
	}
	p2, err := products.Get("p-2", true)
	if err != nil {
		t.Fatalf("get p-2: %v", err)
	}
	p2.PriceMinor = 9000
	p2.DiscountedPriceMinor = nil
	if err := products.Update(p2); err != nil {
		t.Fatalf("update p-2: %v", err)
	}

	// Сохранённый заказ остался с ценами на момент оформления.
	stored, err := memory.NewOrderRepository(store).Get(order.ID)
	if err != nil {
		t.Fatalf("get order: %v", err)
	}
	if stored.TotalAmountMinor != 2800 {
		t.Errorf("total after price change = %d, want 2800", stored.TotalAmountMinor)
	}
	for _, item := range stored.Items {
		switch item.ProductID {
		case "p-1":
			if item.UnitPriceMinor != 1000 || item.TotalPriceMinor != 2000 {
				t.Errorf("p-1 item = %+v, want unit 1000 total 2000", item)
			}
		case "p-2":
			if item.UnitPriceMinor != 800 || item.TotalPriceMinor != 800 {
				t.Errorf("p-2 item = %+v, want unit 800 total 800", item)
			}
		}
	}
}

func TestPlaceOrder_DeactivatedProductInCartStillCheckedOut(t *testing.T) {
	store := memory.NewStore()
	seedCatalog(t, store)
	fillCart(t, store, "user-1", map[string]int32{"p-2": 2})
	engine := newTestEngine(t, store)

	// Товар сняли с витрины уже после добавления в корзину.
	if err := memory.NewProductRepository(store).SoftDelete("p-2"); err != nil {
		t.Fatalf("soft delete p-2: %v", err)
	}

	order, err := engine.PlaceOrder(placeInput("user-1"))
	if err != nil {
		t.Fatalf("place order with deactivated product: %v", err)
	}

	// Позиция не отброшена, зафиксирована акционная цена.
	if len(order.Items) != 1 || order.Items[0].UnitPriceMinor != 800 {
		t.Fatalf("items = %+v, want one line at frozen price 800", order.Items)
	}
	if order.TotalAmountMinor != 1600 {
		t.Errorf("total = %d, want 1600", order.TotalAmountMinor)
	}

	// Остаток списан несмотря на неактивность.
	p2, err := memory.NewProductRepository(store).Get("p-2", false)
	if err != nil {
		t.Fatalf("get p-2: %v", err)
	}
	if p2.StockQuantity != 3 {
		t.Errorf("p-2 stock = %d, want 3", p2.StockQuantity)
	}
}

func TestPlaceOrder_InsufficientStockReportsAllShortages(t *testing.T) {
	store := memory.NewStore()
	seedCatalog(t, store)
	fillCart(t, store, "user-1", map[string]int32{"p-1": 11, "p-2": 6})
	engine := newTestEngine(t, store)

	_, err := engine.PlaceOrder(placeInput("user-1"))
	var stockErr *domain.InsufficientStockError
	if !errors.As(err, &stockErr) {
		t.Fatalf("err = %v, want *InsufficientStockError", err)
	}
	if len(stockErr.Shortages) != 2 {
		t.Fatalf("shortages = %d, want 2", len(stockErr.Shortages))
	}
	for _, s := range stockErr.Shortages {
		switch s.ProductID {
		case "p-1":
			if s.Requested != 11 || s.Available != 10 {
				t.Errorf("p-1 shortage = %+v", s)
			}
		case "p-2":
			if s.Requested != 6 || s.Available != 5 {
				t.Errorf("p-2 shortage = %+v", s)
			}
		default:
			t.Errorf("unexpected shortage for %s", s.ProductID)
		}
	}

	// Корзина не тронута, повтор после правки количества возможен.
	views, err := memory.NewCartRepository(store).ListWithProducts("user-1")
	if err != nil {
		t.Fatalf("list cart: %v", err)
	}
	if len(views) != 2 {
		t.Errorf("cart lines = %d, want 2", len(views))
	}
}

func TestPlaceOrder_EnqueuesOrderCreatedEvent(t *testing.T) {
	store := memory.NewStore()
	seedCatalog(t, store)
	fillCart(t, store, "user-1", map[string]int32{"p-1": 1})
	engine := newTestEngine(t, store)

	order, err := engine.PlaceOrder(placeInput("user-1"))
	if err != nil {
		t.Fatalf("place order: %v", err)
	}

	pending, err := memory.NewOutboxRepository(store).PullPending(10)
	if err != nil {
		t.Fatalf("pull outbox: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("pending events = %d, want 1", len(pending))
	}
	event := pending[0]
	if event.EventType != EventTypeOrderCreated {
		t.Errorf("event type = %s, want %s", event.EventType, EventTypeOrderCreated)
	}
	if event.AggregateID != order.ID {
		t.Errorf("aggregate id = %s, want %s", event.AggregateID, order.ID)
	}
	payload := string(event.Payload)
	for _, fragment := range []string{order.ID, order.OrderNumber, `"user_id":"user-1"`, `"total_amount_minor":1000`} {
		if !strings.Contains(payload, fragment) {
			t.Errorf("payload %s lacks %q", payload, fragment)
		}
	}
}

// collidingStore имитирует коллизию номера заказа: первые n коммитов
// отклоняются, затем запросы уходят в настоящее хранилище.
type collidingStore struct {
	inner      domain.CheckoutStore
	mu         sync.Mutex
	rejections int
	numbers    []string
}

func (c *collidingStore) Commit(order domain.Order, event domain.OutboxMessage) error {
	c.mu.Lock()
	c.numbers = append(c.numbers, order.OrderNumber)
	reject := c.rejections > 0
	if reject {
		c.rejections--
	}
	c.mu.Unlock()
	if reject {
		return domain.ErrOrderNumberTaken
	}
	return c.inner.Commit(order, event)
}

func TestPlaceOrder_RetriesOnOrderNumberCollision(t *testing.T) {
	store := memory.NewStore()
	seedCatalog(t, store)
	fillCart(t, store, "user-1", map[string]int32{"p-1": 1})

	colliding := &collidingStore{inner: memory.NewCheckoutStore(store), rejections: 2}
	engine := NewEngine(
		memory.NewCartRepository(store),
		memory.NewOrderRepository(store),
		colliding,
		memory.NewOutboxRepository(store),
		nil,
	)

	order, err := engine.PlaceOrder(placeInput("user-1"))
	if err != nil {
		t.Fatalf("place order: %v", err)
	}
	if len(colliding.numbers) != 3 {
		t.Fatalf("commit attempts = %d, want 3", len(colliding.numbers))
	}
	// Каждая попытка идёт с новым номером, успешный номер и есть номер заказа.
	seen := map[string]bool{}
	for _, number := range colliding.numbers {
		if seen[number] {
			t.Errorf("order number %s reused between attempts", number)
		}
		seen[number] = true
	}
	if order.OrderNumber != colliding.numbers[2] {
		t.Errorf("final number = %s, want %s", order.OrderNumber, colliding.numbers[2])
	}
}

func TestPlaceOrder_GivesUpAfterMaxCollisions(t *testing.T) {
	store := memory.NewStore()
	seedCatalog(t, store)
	fillCart(t, store, "user-1", map[string]int32{"p-1": 1})

	colliding := &collidingStore{inner: memory.NewCheckoutStore(store), rejections: maxCommitAttempts}
	engine := NewEngine(
		memory.NewCartRepository(store),
		memory.NewOrderRepository(store),
		colliding,
		memory.NewOutboxRepository(store),
		nil,
	)

	_, err := engine.PlaceOrder(placeInput("user-1"))
	if !errors.Is(err, domain.ErrOrderNumberTaken) {
		t.Fatalf("err = %v, want wrapped ErrOrderNumberTaken", err)
	}
	if len(colliding.numbers) != maxCommitAttempts {
		t.Errorf("attempts = %d, want %d", len(colliding.numbers), maxCommitAttempts)
	}
}

func TestPlaceOrder_ConcurrentSingleUnit(t *testing.T) {
	store := memory.NewStore()
	if err := memory.NewCategoryRepository(store).Create(domain.Category{ID: "cat-1", Name: "Обувь", IsActive: true}); err != nil {
		t.Fatalf("seed category: %v", err)
	}
	if err := memory.NewProductRepository(store).Create(domain.Product{
		ID: "p-1", Name: "Кеды", PriceMinor: 1000, StockQuantity: 1, IsActive: true, CategoryID: "cat-1",
	}); err != nil {
		t.Fatalf("seed product: %v", err)
	}
	engine := newTestEngine(t, store)

	const buyers = 8
	for i := 0; i < buyers; i++ {
		fillCart(t, store, "user-"+string(rune('a'+i)), map[string]int32{"p-1": 1})
	}

	var wg sync.WaitGroup
	results := make(chan error, buyers)
	for i := 0; i < buyers; i++ {
		userID := "user-" + string(rune('a'+i))
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := engine.PlaceOrder(placeInput(userID))
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for err := range results {
		if err == nil {
			succeeded++
		} else if !errors.Is(err, domain.ErrInsufficientStock) {
			t.Errorf("unexpected error: %v", err)
		}
	}
	if succeeded != 1 {
		t.Errorf("succeeded = %d, want exactly 1", succeeded)
	}

	product, err := memory.NewProductRepository(store).Get("p-1", true)
	if err != nil {
		t.Fatalf("get product: %v", err)
	}
	if product.StockQuantity != 0 {
		t.Errorf("final stock = %d, want 0", product.StockQuantity)
	}
}

func TestUpdateOrderStatus_StampsDatesOnce(t *testing.T) {
	store := memory.NewStore()
	seedCatalog(t, store)
	fillCart(t, store, "user-1", map[string]int32{"p-1": 1})
	engine := newTestEngine(t, store)

	order, err := engine.PlaceOrder(placeInput("user-1"))
	if err != nil {
		t.Fatalf("place order: %v", err)
	}

	shipped, err := engine.UpdateOrderStatus(order.ID, domain.OrderStatusShipped)
	if err != nil {
		t.Fatalf("update to shipped: %v", err)
	}
	if shipped.ShippedDate == nil {
		t.Fatal("shipped date must be set")
	}
	firstStamp := *shipped.ShippedDate

	time.Sleep(5 * time.Millisecond)
	again, err := engine.UpdateOrderStatus(order.ID, domain.OrderStatusShipped)
	if err != nil {
		t.Fatalf("repeat update: %v", err)
	}
	if !again.ShippedDate.Equal(firstStamp) {
		t.Errorf("shipped date changed on repeat: %v vs %v", again.ShippedDate, firstStamp)
	}

	delivered, err := engine.UpdateOrderStatus(order.ID, domain.OrderStatusDelivered)
	if err != nil {
		t.Fatalf("update to delivered: %v", err)
	}
	if delivered.DeliveredDate == nil {
		t.Fatal("delivered date must be set")
	}
	if !delivered.ShippedDate.Equal(firstStamp) {
		t.Error("delivered transition must keep shipped date")
	}
}

func TestUpdateOrderStatus_InvalidStatus(t *testing.T) {
	engine := newTestEngine(t, memory.NewStore())
	if _, err := engine.UpdateOrderStatus("order-1", "paid"); !errors.Is(err, domain.ErrOrderStatusInvalid) {
		t.Fatalf("err = %v, want ErrOrderStatusInvalid", err)
	}
}

func TestUpdateOrderStatus_EnqueuesStatusEvent(t *testing.T) {
	store := memory.NewStore()
	seedCatalog(t, store)
	fillCart(t, store, "user-1", map[string]int32{"p-1": 1})
	engine := newTestEngine(t, store)

	order, err := engine.PlaceOrder(placeInput("user-1"))
	if err != nil {
		t.Fatalf("place order: %v", err)
	}
	if _, err := engine.UpdateOrderStatus(order.ID, domain.OrderStatusConfirmed); err != nil {
		t.Fatalf("update status: %v", err)
	}

	pending, err := memory.NewOutboxRepository(store).PullPending(10)
	if err != nil {
		t.Fatalf("pull outbox: %v", err)
	}
	// Событие о создании заказа плюс событие о смене статуса.
	if len(pending) != 2 {
		t.Fatalf("pending = %d, want 2", len(pending))
	}
	var event domain.OutboxMessage
	for _, msg := range pending {
		if msg.EventType == EventTypeOrderStatusChanged {
			event = msg
		}
	}
	if event.EventType != EventTypeOrderStatusChanged {
		t.Fatalf("no %s event among %+v", EventTypeOrderStatusChanged, pending)
	}
	payload := string(event.Payload)
	for _, fragment := range []string{`"from":"pending"`, `"to":"confirmed"`, order.ID} {
		if !strings.Contains(payload, fragment) {
			t.Errorf("payload %s lacks %q", payload, fragment)
		}
	}
}

func TestGetOrderAndListUserOrders(t *testing.T) {
	store := memory.NewStore()
	seedCatalog(t, store)
	fillCart(t, store, "user-1", map[string]int32{"p-1": 1})
	engine := newTestEngine(t, store)

	order, err := engine.PlaceOrder(placeInput("user-1"))
	if err != nil {
		t.Fatalf("place order: %v", err)
	}

	if _, err := engine.GetOrder(order.ID, "user-1"); err != nil {
		t.Fatalf("get own order: %v", err)
	}
	if _, err := engine.GetOrder(order.ID, "user-2"); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("foreign get err = %v, want ErrOrderNotFound", err)
	}

	orders, err := engine.ListUserOrders("user-1")
	if err != nil {
		t.Fatalf("list orders: %v", err)
	}
	if len(orders) != 1 || orders[0].ID != order.ID {
		t.Fatalf("orders = %+v, want the placed order", orders)
	}
}
