package models

import "time"

// Contract represents a single row of the contracts table (contratos_vivo).
// Every column consumed by the quality metrics is optional: rows come from an
// external system and any field may be missing.
//
// Column mapping:
//   - area_solicitante → RequestingArea
//   - tipo_alerta      → AlertType
//   - risco            → Risk
//   - status           → Status
//   - valor_contrato   → Value
//   - multa            → Penalty
//   - data_vencimento  → ExpiryDate
//   - data_assinatura  → SignatureDate
//   - fornecedor       → Supplier
//   - tipo_contrato    → ContractType
//
// swagger:model Contract
type Contract struct {
	ID             int64      `json:"id"`
	ContractNumber *string    `json:"numero_contrato,omitempty"`
	RequestingArea *string    `json:"area_solicitante,omitempty"`
	AlertType      *string    `json:"tipo_alerta,omitempty"`
	Risk           *string    `json:"risco,omitempty"`
	Status         *string    `json:"status,omitempty"`
	Value          *float64   `json:"valor_contrato,omitempty"`
	Penalty        *float64   `json:"multa,omitempty"`
	ExpiryDate     *time.Time `json:"data_vencimento,omitempty"`
	SignatureDate  *time.Time `json:"data_assinatura,omitempty"`
	Supplier       *string    `json:"fornecedor,omitempty"`
	ContractType   *string    `json:"tipo_contrato,omitempty"`

	// SourceFile is the CSV export the row was imported from (empty for rows
	// written by other systems).
	SourceFile string `json:"-"`

	// InvalidExpiryDate and InvalidSignatureDate mark a date column that held
	// a non-empty value which could not be parsed. Such a date is present but
	// falls in no window and never compares before now.
	InvalidExpiryDate    bool `json:"-"`
	InvalidSignatureDate bool `json:"-"`
}

// Known values of the risco and status columns.
const (
	RiskHigh = "ALTO"
	RiskLow  = "BAIXO"

	StatusCritical = "CRÍTICO"
	StatusRenewed  = "RENOVADO"

	AlertCritical = "CRÍTICO"

	UndefinedContractType = "Não Definido"
)

// Text returns the value of an optional text column and whether it is
// present. Only nil and "" count as absent; the value is not trimmed, so " "
// is present and "ALTO " is not RiskHigh.
func Text(s *string) (string, bool) {
	if s == nil || *s == "" {
		return "", false
	}
	return *s, true
}

// Amount returns the value of an optional numeric column, defaulting to 0.
func Amount(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}

// StringPtr is a small helper for building optional text columns.
func StringPtr(s string) *string { return &s }

// FloatPtr is a small helper for building optional numeric columns.
func FloatPtr(f float64) *float64 { return &f }

// TimePtr is a small helper for building optional date columns.
func TimePtr(t time.Time) *time.Time { return &t }
