// Package service turns the enriched output into the operator's action
// board and executes board actions (send, move, note, dismiss) against
// the CRM.
package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"pipeline_portal_backend/internal/crm/transport"
	dashtransport "pipeline_portal_backend/internal/dashboard/transport"
	"pipeline_portal_backend/internal/pipeline/domain"
	"pipeline_portal_backend/internal/snapshots"
	"pipeline_portal_backend/platform/apperr"
	"pipeline_portal_backend/platform/logger"
)

// Store is the snapshot persistence the dashboard reads and writes.
type Store interface {
	LoadOutput(ctx context.Context) (*domain.Output, error)
	PutJSON(ctx context.Context, key string, v any) error
	GetJSON(ctx context.Context, key string, out any) error
}

// CRMGateway is the subset of the CRM client the board actions need.
type CRMGateway interface {
	SendMessage(ctx context.Context, req transport.SendMessageRequest) (transport.SendMessageResponse, error)
	MoveOpportunity(ctx context.Context, opportunityID, stageID string) error
	AddContactNote(ctx context.Context, contactID, body string) error
}

// StatusRepository records how each action was handled.
type StatusRepository interface {
	Set(ctx context.Context, actionID string, entry dashtransport.StatusEntry) error
	All(ctx context.Context) (map[string]dashtransport.StatusEntry, error)
	Merge(ctx context.Context, entries map[string]dashtransport.StatusEntry) error
	Reset(ctx context.Context) error
}

type Service struct {
	store    Store
	crm      CRMGateway
	statuses StatusRepository
	log      *logger.Logger

	emailFrom         string
	inProgressStageID string
	cooledOffStageID  string
}

// New creates the dashboard service. inProgressStageID drives the
// auto-move after a first outreach; cooledOffStageID is the default
// target of move actions.
func New(store Store, crm CRMGateway, statuses StatusRepository, log *logger.Logger,
	emailFrom, inProgressStageID, cooledOffStageID string) *Service {
	return &Service{
		store:             store,
		crm:               crm,
		statuses:          statuses,
		log:               log,
		emailFrom:         emailFrom,
		inProgressStageID: inProgressStageID,
		cooledOffStageID:  cooledOffStageID,
	}
}

// Publish rebuilds the action board from the latest enriched output and
// resets the per-action statuses. Called at the end of each run.
func (s *Service) Publish(ctx context.Context) error {
	out, err := s.store.LoadOutput(ctx)
	if err != nil {
		return err
	}
	data := s.Build(out, time.Now().UTC())
	if err := s.store.PutJSON(ctx, snapshots.KeyDashboard, data); err != nil {
		return err
	}
	return s.statuses.Reset(ctx)
}

// Build renders the enriched output into the action board. Actions sort
// by priority (high first) and get sequential IDs; leads with no
// recommended action land on the no-action list with their reason.
func (s *Service) Build(out *domain.Output, generatedAt time.Time) dashtransport.DashboardData {
	data := dashtransport.DashboardData{
		Actions:         []dashtransport.ActionItem{},
		NoAction:        []dashtransport.NoActionItem{},
		InactiveSummary: out.InactiveSummary,
		GeneratedAt:     generatedAt,
	}
	if data.InactiveSummary == nil {
		data.InactiveSummary = map[string]int{}
	}

	for _, lead := range out.Leads {
		if lead.SuggestedAction == domain.ActionNone {
			data.NoAction = append(data.NoAction, dashtransport.NoActionItem{
				ContactName: lead.Name,
				Stage:       lead.Stage,
				Reason:      lead.Hint,
			})
			continue
		}
		data.Actions = append(data.Actions, s.buildAction(lead))
	}

	sort.SliceStable(data.Actions, func(i, j int) bool {
		return domain.Priority(data.Actions[i].Priority).Rank() > domain.Priority(data.Actions[j].Priority).Rank()
	})
	for i := range data.Actions {
		data.Actions[i].ID = i + 1
	}

	return data
}

func (s *Service) buildAction(lead domain.EnrichedLead) dashtransport.ActionItem {
	item := dashtransport.ActionItem{
		Priority:            string(lead.SuggestedPriority),
		ActionType:          string(lead.SuggestedAction),
		Label:               actionLabel(lead),
		ContactID:           lead.ContactID,
		ContactName:         lead.Name,
		ContactEmail:        lead.Email,
		ContactPhone:        lead.Phone,
		OpportunityID:       lead.ID,
		Stage:               lead.Stage,
		Context:             leadContext(lead),
		Recommendation:      lead.Hint,
		ConversationHistory: lead.ConversationHistory,
		Notes:               lead.Notes,
		MessageType:         messageType(lead),
	}
	if lead.SuggestedAction == domain.ActionMove {
		item.TargetStageID = s.cooledOffStageID
	}
	return item
}

// Actions returns the latest published board. A board that was never
// published comes back empty rather than failing.
func (s *Service) Actions(ctx context.Context) (dashtransport.DashboardData, error) {
	var data dashtransport.DashboardData
	err := s.store.GetJSON(ctx, snapshots.KeyDashboard, &data)
	if apperr.GetKind(err) == apperr.KindNotFound {
		return dashtransport.DashboardData{
			Actions:         []dashtransport.ActionItem{},
			NoAction:        []dashtransport.NoActionItem{},
			InactiveSummary: map[string]int{},
		}, nil
	}
	if err != nil {
		return data, err
	}
	return data, nil
}

// Pipeline returns the latest enriched output.
func (s *Service) Pipeline(ctx context.Context) (*domain.Output, error) {
	return s.store.LoadOutput(ctx)
}

// Status returns the per-action handling map.
func (s *Service) Status(ctx context.Context) (map[string]dashtransport.StatusEntry, error) {
	return s.statuses.All(ctx)
}

// UpdateStatus merges a batch of status updates from the client.
func (s *Service) UpdateStatus(ctx context.Context, entries map[string]dashtransport.StatusEntry) error {
	return s.statuses.Merge(ctx, entries)
}

// Send dispatches the outbound message for one action through the CRM. A
// first outreach from New Lead also moves the opportunity to In Progress;
// that move failing is non-fatal since the message already went out.
func (s *Service) Send(ctx context.Context, actionID string, req dashtransport.SendRequest) (dashtransport.SendResponse, error) {
	action, err := s.findAction(ctx, actionID)
	if err != nil {
		return dashtransport.SendResponse{}, err
	}

	msgType := req.Type
	if msgType == "" {
		msgType = action.MessageType
	}
	if msgType == "" {
		msgType = "Email"
	}

	sendReq := transport.SendMessageRequest{
		Type:      msgType,
		ContactID: action.ContactID,
		Message:   req.Message,
	}
	if msgType == "Email" {
		sendReq.Subject = req.Subject
		sendReq.HTML = req.HTML
		sendReq.EmailFrom = s.emailFrom
	}

	resp, err := s.crm.SendMessage(ctx, sendReq)
	if err != nil {
		return dashtransport.SendResponse{}, err
	}

	if action.Stage == domain.StageNewLead && action.OpportunityID != "" && s.inProgressStageID != "" {
		if err := s.crm.MoveOpportunity(ctx, action.OpportunityID, s.inProgressStageID); err != nil {
			s.log.WithContext(ctx).Warn("auto-move after send failed",
				"opportunityId", action.OpportunityID, "error", err)
		}
	}

	s.recordStatus(ctx, actionID, "sent")
	return dashtransport.SendResponse{Success: true, MessageID: resp.MessageID}, nil
}

// Move changes an action's opportunity stage.
func (s *Service) Move(ctx context.Context, actionID string, req dashtransport.MoveRequest) error {
	action, err := s.findAction(ctx, actionID)
	if err != nil {
		return err
	}

	target := req.TargetStageID
	if target == "" {
		target = action.TargetStageID
	}
	if target == "" {
		return apperr.BadRequest("no target stage specified")
	}

	if err := s.crm.MoveOpportunity(ctx, action.OpportunityID, target); err != nil {
		return err
	}
	s.recordStatus(ctx, actionID, "moved")
	return nil
}

// Note attaches a note to the action's contact.
func (s *Service) Note(ctx context.Context, actionID, body string) error {
	action, err := s.findAction(ctx, actionID)
	if err != nil {
		return err
	}
	if err := s.crm.AddContactNote(ctx, action.ContactID, body); err != nil {
		return err
	}
	s.recordStatus(ctx, actionID, "noted")
	return nil
}

// Dismiss marks an action as handled without touching the CRM.
func (s *Service) Dismiss(ctx context.Context, actionID string) error {
	s.recordStatus(ctx, actionID, "dismissed")
	return nil
}

// findAction resolves an action ID (optionally suffixed, e.g. "3_email")
// against the published board.
func (s *Service) findAction(ctx context.Context, actionID string) (*dashtransport.ActionItem, error) {
	numeric, err := strconv.Atoi(strings.SplitN(actionID, "_", 2)[0])
	if err != nil {
		return nil, apperr.BadRequest("invalid action id")
	}

	var data dashtransport.DashboardData
	if err := s.store.GetJSON(ctx, snapshots.KeyDashboard, &data); err != nil {
		if apperr.GetKind(err) == apperr.KindNotFound {
			return nil, apperr.NotFound("no dashboard data")
		}
		return nil, err
	}

	for i := range data.Actions {
		if data.Actions[i].ID == numeric {
			return &data.Actions[i], nil
		}
	}
	return nil, apperr.NotFound("action not found")
}

func (s *Service) recordStatus(ctx context.Context, actionID, status string) {
	entry := dashtransport.StatusEntry{Status: status, TS: time.Now().UnixMilli()}
	if err := s.statuses.Set(ctx, actionID, entry); err != nil {
		s.log.WithContext(ctx).Warn("record action status failed",
			"actionId", actionID, "status", status, "error", err)
	}
}

func actionLabel(lead domain.EnrichedLead) string {
	switch lead.SuggestedAction {
	case domain.ActionReply:
		return "Reply to " + lead.Name
	case domain.ActionOutreach:
		return "Send first outreach to " + lead.Name
	case domain.ActionCall:
		return "Call " + lead.Name
	case domain.ActionFollowUpEmail:
		return "Send follow-up email to " + lead.Name
	case domain.ActionFinalAttemptEmail:
		return "Send final attempt email to " + lead.Name
	case domain.ActionHighValueFollowup:
		return "High-value follow-up with " + lead.Name
	case domain.ActionMove:
		return "Move " + lead.Name + " out of the pipeline"
	default:
		return string(lead.SuggestedAction)
	}
}

// messageType picks the outbound medium for the action. International
// leads never get calls or texts.
func messageType(lead domain.EnrichedLead) string {
	switch lead.SuggestedAction {
	case domain.ActionFollowUpEmail, domain.ActionFinalAttemptEmail, domain.ActionHighValueFollowup:
		return "Email"
	case domain.ActionReply, domain.ActionOutreach:
		if lead.IsInternational || lead.Phone == "" {
			return "Email"
		}
		return "SMS"
	case domain.ActionCall:
		return ""
	default:
		return ""
	}
}

// leadContext summarizes why this lead is on the board.
func leadContext(lead domain.EnrichedLead) string {
	parts := []string{}
	if lead.MonetaryValue > 0 {
		parts = append(parts, fmt.Sprintf("$%.0f", lead.MonetaryValue))
	}
	parts = append(parts, fmt.Sprintf("%d days in %s", lead.DaysInStage, lead.Stage))
	if lead.OutboundCount > 0 {
		parts = append(parts, fmt.Sprintf("%d outbound attempts", lead.OutboundCount))
	}
	if lead.NeedsReply {
		parts = append(parts, "unread inbound message")
	}
	if lead.WaitingOnArtwork {
		parts = append(parts, "waiting on artwork")
	}
	if len(lead.MissingInfo) > 0 {
		parts = append(parts, "missing: "+strings.Join(lead.MissingInfo, ", "))
	}
	if lead.IsInternational {
		parts = append(parts, "international (email only)")
	}
	return strings.Join(parts, " · ")
}
