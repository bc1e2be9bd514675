package domain

// ProductRepository описывает требования к хранилищу товаров.
type ProductRepository interface {
	// Create сохраняет новый товар. Возвращает ErrCategoryNotFound при невалидной ссылке на категорию.
	Create(product Product) error
	// Get возвращает товар по идентификатору или ErrProductNotFound.
	// activeOnly — обязательный явный предикат: чекаут читает и деактивированные товары,
	// листинги и корзина — только активные.
	Get(id string, activeOnly bool) (Product, error)
	// List возвращает страницу активных товаров по фильтру со стабильной сортировкой.
	List(filter ProductFilter) ([]Product, error)
	// Update перезаписывает изменяемые поля товара.
	Update(product Product) error
	// SoftDelete снимает товар с продажи, не удаляя строку: исторические заказы
	// должны продолжать разрешать ссылку на товар.
	SoftDelete(id string) error
}

// CategoryRepository описывает требования к хранилищу категорий.
type CategoryRepository interface {
	// Create сохраняет категорию. Возвращает ErrCategoryNameTaken при дубликате имени.
	Create(category Category) error
	// Get возвращает категорию или ErrCategoryNotFound.
	Get(id string, activeOnly bool) (Category, error)
	// List возвращает активные категории.
	List() ([]Category, error)
	// Update перезаписывает изменяемые поля категории.
	Update(category Category) error
	// SoftDelete деактивирует категорию.
	SoftDelete(id string) error
}

// CartRepository описывает требования к хранилищу корзины.
// Здесь нет логики цен и остатков: только строки CartLine.
type CartRepository interface {
	// Upsert создаёт позицию или увеличивает количество существующей
	// для пары (user, product), никогда не создавая дубликатов.
	Upsert(line CartLine) (CartLine, error)
	// UpdateQty заменяет количество; ErrCartLineNotFound, если позиции нет.
	UpdateQty(userID, productID string, qty int32) error
	// Remove удаляет позицию; ErrCartLineNotFound, если позиции нет.
	Remove(userID, productID string) error
	// ListWithProducts возвращает позиции пользователя вместе со срезом товара
	// (цена, акционная цена, остаток, признак активности).
	ListWithProducts(userID string) ([]CartLineView, error)
	// Clear удаляет все позиции пользователя.
	Clear(userID string) error
}

// OrderRepository описывает требования к хранилищу заказов.
// Создание заказа идёт только через CheckoutStore.Commit.
type OrderRepository interface {
	// Get возвращает заказ с позициями или ErrOrderNotFound.
	Get(id string) (Order, error)
	// GetForUser возвращает заказ, только если он принадлежит пользователю.
	GetForUser(id, userID string) (Order, error)
	// ListByUser возвращает заказы пользователя, новые первыми.
	ListByUser(userID string) ([]Order, error)
	// UpdateStatus сохраняет статус и отметки дат; остальные поля заказа неизменяемы.
	UpdateStatus(order Order) error
}

// UserRepository описывает требования к хранилищу учётных записей.
type UserRepository interface {
	// Create сохраняет пользователя. Возвращает ErrEmailTaken при дубликате email.
	Create(user User) error
	// Get возвращает пользователя или ErrUserNotFound.
	Get(id string) (User, error)
	// GetByEmail возвращает пользователя по email или ErrUserNotFound.
	GetByEmail(email string) (User, error)
	// Update перезаписывает профильные поля пользователя.
	Update(user User) error
}
