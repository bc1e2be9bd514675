package kafka

// Топики событий заказов.
const (
	// TopicOrderEvents — основной топик событий жизненного цикла заказа.
	// Ключ сообщения — ID заказа, поэтому события одного заказа упорядочены.
	TopicOrderEvents = "storefront.order.events"
	// TopicDeadLetterQueue принимает события, которые не удалось опубликовать
	// после всех повторов outbox worker'а.
	TopicDeadLetterQueue = "storefront.order.dlq"
)
