package models

// ProposalStatus константы статусов предложений.
// Канонический статус после принятия — accepted; внешние значения
// (ACCEPTED, IN_PROGRESS и т.п.) приводятся к нижнему регистру и
// отображаются на этот набор до входа в сервисный слой.
const (
	ProposalStatusPending   = "pending"
	ProposalStatusAccepted  = "accepted"
	ProposalStatusDeclined  = "declined"
	ProposalStatusCancelled = "cancelled"
	ProposalStatusCompleted = "completed"
)

// OrderStatus константы статусов заказов.
const (
	OrderStatusInProgress = "in_progress"
	OrderStatusSubmitted  = "submitted"
	OrderStatusCompleted  = "completed"
	OrderStatusCancelled  = "cancelled"
)

// ProposalAction действия над предложением.
const (
	ProposalActionAccept = "accept"
	ProposalActionReject = "reject"
	ProposalActionCancel = "cancel"
)

// ReviewAction решения клиента по сданной работе.
const (
	ReviewActionAccept = "accept"
	ReviewActionReject = "reject"
)

// Роли пользователей.
const (
	RoleClient     = "client"
	RoleFreelancer = "freelancer"
)

// ValidProposalStatuses список валидных статусов предложений.
var ValidProposalStatuses = map[string]struct{}{
	ProposalStatusPending:   {},
	ProposalStatusAccepted:  {},
	ProposalStatusDeclined:  {},
	ProposalStatusCancelled: {},
	ProposalStatusCompleted: {},
}

// ValidOrderStatuses список валидных статусов заказов.
var ValidOrderStatuses = map[string]struct{}{
	OrderStatusInProgress: {},
	OrderStatusSubmitted:  {},
	OrderStatusCompleted:  {},
	OrderStatusCancelled:  {},
}

// TerminalProposalStatuses статусы, после которых предложение не меняется.
var TerminalProposalStatuses = map[string]struct{}{
	ProposalStatusDeclined:  {},
	ProposalStatusCancelled: {},
	ProposalStatusCompleted: {},
}

// TerminalOrderStatuses статусы, после которых заказ не меняется.
var TerminalOrderStatuses = map[string]struct{}{
	OrderStatusCompleted: {},
	OrderStatusCancelled: {},
}

// IsTerminalProposalStatus сообщает, является ли статус предложения терминальным.
func IsTerminalProposalStatus(status string) bool {
	_, ok := TerminalProposalStatuses[status]
	return ok
}

// IsTerminalOrderStatus сообщает, является ли статус заказа терминальным.
func IsTerminalOrderStatus(status string) bool {
	_, ok := TerminalOrderStatuses[status]
	return ok
}
