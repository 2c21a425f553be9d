package entity

import "time"

// LogType tipo de evento del registro de actividad (enumeración cerrada).
type LogType string

const (
	LogUserCreated       LogType = "user_created"
	LogUserUpdated       LogType = "user_updated"
	LogRoleChanged       LogType = "role_changed"
	LogUserDeactivated   LogType = "user_deactivated"
	LogClientCreated     LogType = "client_created"
	LogClientUpdated     LogType = "client_updated"
	LogJobCreated        LogType = "job_created"
	LogJobUpdated        LogType = "job_updated"
	LogJobCompleted      LogType = "job_completed"
	LogProposalGenerated LogType = "proposal_generated"
	LogProposalSent      LogType = "proposal_sent"
	LogProposalAccepted  LogType = "proposal_accepted"
	LogProposalRejected  LogType = "proposal_rejected"
	LogLogin             LogType = "login"
	LogLogout            LogType = "logout"
	LogPasswordChanged   LogType = "password_changed"
	LogFileUploaded      LogType = "file_uploaded"
	LogFileDeleted       LogType = "file_deleted"
	LogSystemBackup      LogType = "system_backup"
	LogDataExport        LogType = "data_export"
	LogSettingsChanged   LogType = "settings_changed"
	LogStockUpdated      LogType = "stock_updated"
	LogOther             LogType = "other"
)

var logTypes = map[LogType]bool{
	LogUserCreated: true, LogUserUpdated: true, LogRoleChanged: true, LogUserDeactivated: true,
	LogClientCreated: true, LogClientUpdated: true,
	LogJobCreated: true, LogJobUpdated: true, LogJobCompleted: true,
	LogProposalGenerated: true, LogProposalSent: true, LogProposalAccepted: true, LogProposalRejected: true,
	LogLogin: true, LogLogout: true, LogPasswordChanged: true,
	LogFileUploaded: true, LogFileDeleted: true,
	LogSystemBackup: true, LogDataExport: true, LogSettingsChanged: true,
	LogStockUpdated: true, LogOther: true,
}

// Valid indica si el tipo pertenece a la enumeración.
func (t LogType) Valid() bool { return logTypes[t] }

// Tipos de recurso objetivo de una entrada.
const (
	ResourceUser     = "user"
	ResourceClient   = "client"
	ResourceJob      = "job"
	ResourceProposal = "proposal"
	ResourceProduct  = "product"
	ResourceSettings = "settings"
)

// SystemActor actor de las entradas generadas por el propio sistema (p. ej. alertas de stock).
const SystemActor = "system"

// ActivityLog entrada inmutable del registro de actividad.
type ActivityLog struct {
	Base
	Type               LogType        `json:"type"`
	UserID             string         `json:"userId"` // actor
	TargetUserID       string         `json:"targetUserId,omitempty"`
	TargetResourceID   string         `json:"targetResourceId,omitempty"`
	TargetResourceType string         `json:"targetResourceType,omitempty"`
	Description        string         `json:"description"`
	Metadata           map[string]any `json:"metadata,omitempty"`
	IP                 string         `json:"ip,omitempty"`
	UserAgent          string         `json:"userAgent,omitempty"`
}

// Timestamp momento en que se registró la entrada.
func (l *ActivityLog) Timestamp() time.Time { return l.CreatedAt }
