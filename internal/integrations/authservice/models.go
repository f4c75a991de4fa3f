package authservice

// Capability имя проверяемой способности
type Capability string

const (
	// CapabilityApprove право принимать решения по бронированиям
	CapabilityApprove Capability = "approve"

	// CapabilityCancelAny право отменять чужие подтвержденные бронирования
	CapabilityCancelAny Capability = "cancel_any"
)

// capabilityResponse ответ сервиса авторизации на проверку способности
type capabilityResponse struct {
	Allowed bool `json:"allowed"`
}
