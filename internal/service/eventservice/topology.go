package eventservice

const (
	ExchangeKindTopic = "topic"
	ExchangeName      = "events.topic"
	Source            = "api-catalogo"
)

const (
	TopicProductSaved      = "catalog.product.saved"
	TopicProductDeleted    = "catalog.product.deleted"
	TopicAttachmentSaved   = "catalog.attachment.saved"
	TopicAttachmentDeleted = "catalog.attachment.deleted"
	TopicOrdersChanged     = "agent.orders.changed"
)
