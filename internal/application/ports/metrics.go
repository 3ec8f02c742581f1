package ports

// WorkflowMetrics contadores de negocio. NopMetrics sirve cuando no hay métricas.
type WorkflowMetrics interface {
	RequestSubmitted()
	RequestReviewed(status string)
	TenantTransition(action string)
	UserTransition(action string)
	UserProvisioned(created bool)
	LoginAttempt(outcome string)
	NotificationResult(template string, ok bool)
}

// NopMetrics no registra nada.
type NopMetrics struct{}

func (NopMetrics) RequestSubmitted() {}
func (NopMetrics) RequestReviewed(string) {}
func (NopMetrics) TenantTransition(string) {}
func (NopMetrics) UserTransition(string) {}
func (NopMetrics) UserProvisioned(bool) {}
func (NopMetrics) LoginAttempt(string) {}
func (NopMetrics) NotificationResult(string, bool) {}
