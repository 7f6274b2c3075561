package domain

const (
	RoleStudent  = "STUDENT"
	RoleLecturer = "LECTURER"
	RolePartner  = "PARTNER"
	RoleAdmin    = "ADMIN"
)

const (
	EntryTypeCredit = "credit"
	EntryTypeDebit  = "debit"
)

const (
	PurposePayment      = "payment"
	PurposeWithdrawal   = "withdrawal"
	PurposeAIAssignment = "ai_assignment"
	PurposeCommission   = "commission"
	PurposeFunding      = "funding"
	PurposeAdjustment   = "adjustment"
)

const (
	EntryStatusCompleted = "completed"
	EntryStatusPending   = "pending"
	EntryStatusFailed    = "failed"
)

const (
	WithdrawalStatusPending  = "pending"
	WithdrawalStatusApproved = "approved"
	WithdrawalStatusPaid     = "paid"
	WithdrawalStatusRejected = "rejected"
)

const (
	CommissionStatusPending = "pending"
	CommissionStatusPaid    = "paid"
)

const (
	SourceTypeAssignmentSubmission = "assignment_submission"
	SourceTypeTestSubmission       = "test_submission"
)

const (
	BeneficiaryLecturer = "lecturer"
	BeneficiaryPartner  = "partner"
)

const (
	ReferralStatusActive   = "active"
	ReferralStatusInactive = "inactive"
)

const (
	PartnerStatusActive    = "active"
	PartnerStatusSuspended = "suspended"
)

// System setting keys (seeded with defaults at boot).
const (
	SettingPlatformCommissionPercent = "platform_commission_percent"
	SettingMinimumWithdrawal         = "minimum_withdrawal"
	SettingDefaultSubmissionCost     = "default_submission_cost"
	SettingTestSubmissionCost        = "test_submission_cost"
	SettingDefaultPartnerRate        = "default_partner_commission_rate"
)
