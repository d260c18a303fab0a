package enums

// OutboxEventType names a domain event queued for publication.
type OutboxEventType string

const (
	EventOrderCreated          OutboxEventType = "order.created"
	EventOrderCollected        OutboxEventType = "order.collected"
	EventOrderCanceled         OutboxEventType = "order.canceled"
	EventOrderPaymentConfirmed OutboxEventType = "order.payment_confirmed"
)

// OutboxAggregateType names the entity an event belongs to.
type OutboxAggregateType string

const (
	AggregateOrder OutboxAggregateType = "order"
)
