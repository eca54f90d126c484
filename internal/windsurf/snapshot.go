// ABOUTME: Quota snapshot model and the wire types it is parsed from
// ABOUTME: Snapshots are immutable and passed through structurally, no clamping

package windsurf

// QuotaSnapshot is the parsed result of one successful GetUserStatus call.
// Field contents are passed through from the server untouched; clamping and
// display formatting are the caller's concern.
type QuotaSnapshot struct {
	Account     Account
	Limits      CreditLimits
	Available   CreditPools
	ModelQuotas []ModelQuota
}

// Account identifies the signed-in user and their plan tier.
type Account struct {
	Name  string
	Email string
	Tier  Tier
}

// Tier is the plan tier label shown in the IDE.
type Tier struct {
	ID          string
	Name        string
	Description string
}

// CreditLimits holds the per-period allotments for the two credit pools.
type CreditLimits struct {
	MonthlyPrompt float64
	MonthlyFlow   float64
}

// CreditPools holds the currently remaining amount for each pool. The server
// does not guarantee non-negative values.
type CreditPools struct {
	Prompt float64
	Flow   float64
}

// ModelQuota is one per-model entry. Fraction is nil when the server reports
// no quota information for the model; such entries are preserved, not
// dropped. ResetTime is the raw RFC3339 string from the server.
type ModelQuota struct {
	Label     string
	Model     string
	Fraction  *float64
	ResetTime string
}

// Wire shapes for the GetUserStatus exchange.

type fetchRequest struct {
	Metadata requestMetadata `json:"metadata"`
}

type requestMetadata struct {
	IDEName       string `json:"ideName"`
	ExtensionName string `json:"extensionName"`
	Locale        string `json:"locale"`
}

type userStatusResponse struct {
	UserStatus *userStatus `json:"userStatus"`
}

type userStatus struct {
	Name                   string                 `json:"name"`
	Email                  string                 `json:"email"`
	PlanStatus             planStatus             `json:"planStatus"`
	CascadeModelConfigData cascadeModelConfigData `json:"cascadeModelConfigData"`
	UserTier               userTier               `json:"userTier"`
}

type planStatus struct {
	AvailablePromptCredits float64  `json:"availablePromptCredits"`
	AvailableFlowCredits   float64  `json:"availableFlowCredits"`
	PlanInfo               planInfo `json:"planInfo"`
}

type planInfo struct {
	MonthlyPromptCredits float64 `json:"monthlyPromptCredits"`
	MonthlyFlowCredits   float64 `json:"monthlyFlowCredits"`
}

type cascadeModelConfigData struct {
	ClientModelConfigs []clientModelConfig `json:"clientModelConfigs"`
}

type clientModelConfig struct {
	Label        string       `json:"label"`
	ModelOrAlias modelOrAlias `json:"modelOrAlias"`
	QuotaInfo    *quotaInfo   `json:"quotaInfo"`
}

type modelOrAlias struct {
	Model string `json:"model"`
}

type quotaInfo struct {
	RemainingFraction *float64 `json:"remainingFraction"`
	ResetTime         string   `json:"resetTime"`
}

type userTier struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// newSnapshot maps the wire response onto the snapshot model.
func newSnapshot(status *userStatus) *QuotaSnapshot {
	snap := &QuotaSnapshot{
		Account: Account{
			Name:  status.Name,
			Email: status.Email,
			Tier: Tier{
				ID:          status.UserTier.ID,
				Name:        status.UserTier.Name,
				Description: status.UserTier.Description,
			},
		},
		Limits: CreditLimits{
			MonthlyPrompt: status.PlanStatus.PlanInfo.MonthlyPromptCredits,
			MonthlyFlow:   status.PlanStatus.PlanInfo.MonthlyFlowCredits,
		},
		Available: CreditPools{
			Prompt: status.PlanStatus.AvailablePromptCredits,
			Flow:   status.PlanStatus.AvailableFlowCredits,
		},
	}

	for _, cfg := range status.CascadeModelConfigData.ClientModelConfigs {
		entry := ModelQuota{
			Label: cfg.Label,
			Model: cfg.ModelOrAlias.Model,
		}
		if cfg.QuotaInfo != nil {
			entry.Fraction = cfg.QuotaInfo.RemainingFraction
			entry.ResetTime = cfg.QuotaInfo.ResetTime
		}
		snap.ModelQuotas = append(snap.ModelQuotas, entry)
	}
	return snap
}
