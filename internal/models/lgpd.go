package models

// ConsentType is one of the legal consent categories a user can grant
type ConsentType string

const (
	ConsentTermosUso                 ConsentType = "termos_uso"
	ConsentPoliticaPrivacidade       ConsentType = "politica_privacidade"
	ConsentMarketingEmail            ConsentType = "marketing_email"
	ConsentMarketingSMS              ConsentType = "marketing_sms"
	ConsentMarketingWhatsapp         ConsentType = "marketing_whatsapp"
	ConsentNotificacoesPush          ConsentType = "notificacoes_push"
	ConsentCompartilhamentoParceiros ConsentType = "compartilhamento_parceiros"
	ConsentCookiesAnaliticos         ConsentType = "cookies_analiticos"
	ConsentCookiesMarketing          ConsentType = "cookies_marketing"
	ConsentGeolocalizacao            ConsentType = "geolocalizacao"
	ConsentDadosSensiveis            ConsentType = "dados_sensiveis"
)

var consentTypes = map[ConsentType]bool{
	ConsentTermosUso:                 true,
	ConsentPoliticaPrivacidade:       true,
	ConsentMarketingEmail:            true,
	ConsentMarketingSMS:              true,
	ConsentMarketingWhatsapp:         true,
	ConsentNotificacoesPush:          true,
	ConsentCompartilhamentoParceiros: true,
	ConsentCookiesAnaliticos:         true,
	ConsentCookiesMarketing:          true,
	ConsentGeolocalizacao:            true,
	ConsentDadosSensiveis:            true,
}

// IsValid reports whether t is a known consent type
func (t ConsentType) IsValid() bool {
	return consentTypes[t]
}

// ProcessingActivity names the kind of personal-data operation being logged
type ProcessingActivity string

const (
	ActivityColetaDados            ProcessingActivity = "coleta_dados"
	ActivityAcessoDados            ProcessingActivity = "acesso_dados"
	ActivityAtualizacaoDados       ProcessingActivity = "atualizacao_dados"
	ActivityCompartilhamentoDados  ProcessingActivity = "compartilhamento_dados"
	ActivityExportacaoDados        ProcessingActivity = "exportacao_dados"
	ActivityAnonimizacaoDados      ProcessingActivity = "anonimizacao_dados"
	ActivityExclusaoUsuario        ProcessingActivity = "exclusao_usuario"
	ActivityConsentimentoConcedido ProcessingActivity = "consentimento_concedido"
	ActivityConsentimentoRevogado  ProcessingActivity = "consentimento_revogado"
	ActivityProcessamentoPagamento ProcessingActivity = "processamento_pagamento"
	ActivityEnvioMarketing         ProcessingActivity = "envio_marketing"
)

var processingActivities = map[ProcessingActivity]bool{
	ActivityColetaDados:            true,
	ActivityAcessoDados:            true,
	ActivityAtualizacaoDados:       true,
	ActivityCompartilhamentoDados:  true,
	ActivityExportacaoDados:        true,
	ActivityAnonimizacaoDados:      true,
	ActivityExclusaoUsuario:        true,
	ActivityConsentimentoConcedido: true,
	ActivityConsentimentoRevogado:  true,
	ActivityProcessamentoPagamento: true,
	ActivityEnvioMarketing:         true,
}

// IsValid reports whether a is a known processing activity
func (a ProcessingActivity) IsValid() bool {
	return processingActivities[a]
}

// LegalBasis is a legal ground for processing under LGPD art. 7
type LegalBasis string

const (
	BasisConsentimento     LegalBasis = "consentimento"
	BasisObrigacaoLegal    LegalBasis = "obrigacao_legal"
	BasisPoliticasPublicas LegalBasis = "politicas_publicas"
	BasisEstudosPesquisa   LegalBasis = "estudos_pesquisa"
	BasisExecucaoContrato  LegalBasis = "execucao_contrato"
	BasisExercicioDireitos LegalBasis = "exercicio_direitos"
	BasisProtecaoVida      LegalBasis = "protecao_vida"
	BasisTutelaSaude       LegalBasis = "tutela_saude"
	BasisInteresseLegitimo LegalBasis = "interesse_legitimo"
	BasisProtecaoCredito   LegalBasis = "protecao_credito"
)

var legalBases = map[LegalBasis]bool{
	BasisConsentimento:     true,
	BasisObrigacaoLegal:    true,
	BasisPoliticasPublicas: true,
	BasisEstudosPesquisa:   true,
	BasisExecucaoContrato:  true,
	BasisExercicioDireitos: true,
	BasisProtecaoVida:      true,
	BasisTutelaSaude:       true,
	BasisInteresseLegitimo: true,
	BasisProtecaoCredito:   true,
}

// IsValid reports whether b is a known legal basis
func (b LegalBasis) IsValid() bool {
	return legalBases[b]
}

// RequestType is a data-subject right under LGPD art. 18
type RequestType string

const (
	RequestConfirmacao                RequestType = "confirmacao"
	RequestAcesso                     RequestType = "acesso"
	RequestCorrecao                   RequestType = "correcao"
	RequestAnonimizacao               RequestType = "anonimizacao"
	RequestPortabilidade              RequestType = "portabilidade"
	RequestExclusao                   RequestType = "exclusao"
	RequestInformacaoCompartilhamento RequestType = "informacao_compartilhamento"
	RequestRevogacaoConsentimento     RequestType = "revogacao_consentimento"
	RequestOposicao                   RequestType = "oposicao"
)

var requestTypes = map[RequestType]bool{
	RequestConfirmacao:                true,
	RequestAcesso:                     true,
	RequestCorrecao:                   true,
	RequestAnonimizacao:               true,
	RequestPortabilidade:              true,
	RequestExclusao:                   true,
	RequestInformacaoCompartilhamento: true,
	RequestRevogacaoConsentimento:     true,
	RequestOposicao:                   true,
}

// IsValid reports whether t is a known request type
func (t RequestType) IsValid() bool {
	return requestTypes[t]
}

// RequestStatus tracks a data-subject request through its lifecycle
type RequestStatus string

const (
	StatusPendente    RequestStatus = "pendente"
	StatusEmAndamento RequestStatus = "em_andamento"
	StatusConcluido   RequestStatus = "concluido"
	StatusRejeitado   RequestStatus = "rejeitado"
)

// requestTransitions lists the allowed next states. Terminal states have none.
var requestTransitions = map[RequestStatus][]RequestStatus{
	StatusPendente:    {StatusEmAndamento, StatusConcluido, StatusRejeitado},
	StatusEmAndamento: {StatusConcluido, StatusRejeitado},
	StatusConcluido:   nil,
	StatusRejeitado:   nil,
}

// IsValid reports whether s is a known status
func (s RequestStatus) IsValid() bool {
	_, ok := requestTransitions[s]
	return ok
}

// IsTerminal reports whether no further transition is allowed from s
func (s RequestStatus) IsTerminal() bool {
	return s == StatusConcluido || s == StatusRejeitado
}

// CanTransitionTo reports whether moving from s to next is a forward transition
func (s RequestStatus) CanTransitionTo(next RequestStatus) bool {
	for _, allowed := range requestTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Consent represents the LGPD_CONSENT table
type Consent struct {
	ID          string      `db:"CONSENT_ID" json:"id"`
	UserID      string      `db:"USER_ID" json:"userId"`
	UserEmail   string      `db:"USER_EMAIL" json:"userEmail"`
	ConsentType ConsentType `db:"CONSENT_TYPE" json:"consentType"`
	Granted     bool        `db:"GRANTED" json:"granted"`
	GrantedAt   int64       `db:"GRANTED_AT" json:"grantedAt"`
	RevokedAt   *int64      `db:"REVOKED_AT" json:"revokedAt,omitempty"`
	IPAddress   *string     `db:"IP_ADDRESS" json:"ipAddress,omitempty"`
	UserAgent   *string     `db:"USER_AGENT" json:"userAgent,omitempty"`
	Version     string      `db:"VERSION" json:"version"`
	CreatedAt   int64       `db:"CREATED_TIME" json:"createdAt"`
	UpdatedAt   int64       `db:"UPDATED_TIME" json:"updatedAt"`
}

// IsActive reports whether the consent is granted and not revoked
func (c *Consent) IsActive() bool {
	return c.Granted && c.RevokedAt == nil
}

// DataProcessingLog represents the LGPD_PROCESSING_LOG table
type DataProcessingLog struct {
	ID              string             `db:"LOG_ID" json:"id"`
	UserID          string             `db:"USER_ID" json:"userId"`
	UserEmail       string             `db:"USER_EMAIL" json:"userEmail"`
	Activity        ProcessingActivity `db:"ACTIVITY" json:"activity"`
	DataTypes       StringList         `db:"DATA_TYPES" json:"dataType"`
	LegalBasis      LegalBasis         `db:"LEGAL_BASIS" json:"legalBasis"`
	Purpose         string             `db:"PURPOSE" json:"purpose"`
	RetentionPeriod *string            `db:"RETENTION_PERIOD" json:"retentionPeriod,omitempty"`
	SharedWith      StringList         `db:"SHARED_WITH" json:"sharedWith,omitempty"`
	IPAddress       *string            `db:"IP_ADDRESS" json:"ipAddress,omitempty"`
	UserAgent       *string            `db:"USER_AGENT" json:"userAgent,omitempty"`
	Timestamp       int64              `db:"LOG_TIME" json:"timestamp"`
	Metadata        JSON               `db:"METADATA" json:"metadata,omitempty"`
}

// DataSubjectRequest represents the LGPD_DATA_REQUEST table
type DataSubjectRequest struct {
	ID              string        `db:"REQUEST_ID" json:"id"`
	UserID          string        `db:"USER_ID" json:"userId"`
	UserEmail       string        `db:"USER_EMAIL" json:"userEmail"`
	RequestType     RequestType   `db:"REQUEST_TYPE" json:"requestType"`
	Status          RequestStatus `db:"STATUS" json:"status"`
	Description     *string       `db:"DESCRIPTION" json:"description,omitempty"`
	RequestedAt     int64         `db:"REQUESTED_AT" json:"requestedAt"`
	CompletedAt     *int64        `db:"COMPLETED_AT" json:"completedAt,omitempty"`
	ResponseData    JSON          `db:"RESPONSE_DATA" json:"responseData,omitempty"`
	RejectionReason *string       `db:"REJECTION_REASON" json:"rejectionReason,omitempty"`
	HandledBy       *string       `db:"HANDLED_BY" json:"handledBy,omitempty"`
	Notes           *string       `db:"NOTES" json:"notes,omitempty"`
}

// DataRetentionPolicy represents the LGPD_RETENTION_POLICY table
type DataRetentionPolicy struct {
	DataType        string     `db:"DATA_TYPE" json:"dataType"`
	RetentionPeriod string     `db:"RETENTION_PERIOD" json:"retentionPeriod"`
	AnonymizeAfter  *string    `db:"ANONYMIZE_AFTER" json:"anonymizeAfter,omitempty"`
	DeleteAfter     string     `db:"DELETE_AFTER" json:"deleteAfter"`
	LegalBasis      LegalBasis `db:"LEGAL_BASIS" json:"legalBasis"`
	Description     string     `db:"DESCRIPTION" json:"description"`
}
