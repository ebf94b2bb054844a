package service

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

const (
	// ChamaServiceName is the fully-qualified name of the admin service.
	ChamaServiceName = "chama.v1.ChamaService"
	// AuthServiceName is the fully-qualified name of the login service.
	AuthServiceName = "chama.v1.AuthService"
)

// Procedure paths, mounted on the HTTP mux under their service prefix.
const (
	ChamaServiceListMembersProcedure          = "/chama.v1.ChamaService/ListMembers"
	ChamaServiceCreateMemberProcedure         = "/chama.v1.ChamaService/CreateMember"
	ChamaServiceMarkPaidProcedure             = "/chama.v1.ChamaService/MarkPaid"
	ChamaServiceSendRemindersProcedure        = "/chama.v1.ChamaService/SendReminders"
	ChamaServiceGetSummaryProcedure           = "/chama.v1.ChamaService/GetSummary"
	ChamaServiceListRecentPaymentsProcedure   = "/chama.v1.ChamaService/ListRecentPayments"
	ChamaServiceListPendingRemindersProcedure = "/chama.v1.ChamaService/ListPendingReminders"
	ChamaServiceResetCycleProcedure           = "/chama.v1.ChamaService/ResetCycle"
	ChamaServiceSearchMembersProcedure        = "/chama.v1.ChamaService/SearchMembers"
	ChamaServiceGetPaymentHistoryProcedure    = "/chama.v1.ChamaService/GetPaymentHistory"
	ChamaServiceGetDueDateProcedure           = "/chama.v1.ChamaService/GetDueDate"
	ChamaServiceSetDueDateProcedure           = "/chama.v1.ChamaService/SetDueDate"
	ChamaServiceGetMonthlyStatsProcedure      = "/chama.v1.ChamaService/GetMonthlyStats"
	AuthServiceLoginProcedure                 = "/chama.v1.AuthService/Login"
)

// NewChamaServiceHandler builds an HTTP handler for every ChamaService
// procedure. It returns the path prefix to mount the handler on.
func NewChamaServiceHandler(svc *ChamaService, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(jsonCodec{})}, opts...)

	mux := http.NewServeMux()
	mux.Handle(ChamaServiceListMembersProcedure, connect.NewUnaryHandler(ChamaServiceListMembersProcedure, svc.ListMembers, opts...))
	mux.Handle(ChamaServiceCreateMemberProcedure, connect.NewUnaryHandler(ChamaServiceCreateMemberProcedure, svc.CreateMember, opts...))
	mux.Handle(ChamaServiceMarkPaidProcedure, connect.NewUnaryHandler(ChamaServiceMarkPaidProcedure, svc.MarkPaid, opts...))
	mux.Handle(ChamaServiceSendRemindersProcedure, connect.NewUnaryHandler(ChamaServiceSendRemindersProcedure, svc.SendReminders, opts...))
	mux.Handle(ChamaServiceGetSummaryProcedure, connect.NewUnaryHandler(ChamaServiceGetSummaryProcedure, svc.GetSummary, opts...))
	mux.Handle(ChamaServiceListRecentPaymentsProcedure, connect.NewUnaryHandler(ChamaServiceListRecentPaymentsProcedure, svc.ListRecentPayments, opts...))
	mux.Handle(ChamaServiceListPendingRemindersProcedure, connect.NewUnaryHandler(ChamaServiceListPendingRemindersProcedure, svc.ListPendingReminders, opts...))
	mux.Handle(ChamaServiceResetCycleProcedure, connect.NewUnaryHandler(ChamaServiceResetCycleProcedure, svc.ResetCycle, opts...))
	mux.Handle(ChamaServiceSearchMembersProcedure, connect.NewUnaryHandler(ChamaServiceSearchMembersProcedure, svc.SearchMembers, opts...))
	mux.Handle(ChamaServiceGetPaymentHistoryProcedure, connect.NewUnaryHandler(ChamaServiceGetPaymentHistoryProcedure, svc.GetPaymentHistory, opts...))
	mux.Handle(ChamaServiceGetDueDateProcedure, connect.NewUnaryHandler(ChamaServiceGetDueDateProcedure, svc.GetDueDate, opts...))
	mux.Handle(ChamaServiceSetDueDateProcedure, connect.NewUnaryHandler(ChamaServiceSetDueDateProcedure, svc.SetDueDate, opts...))
	mux.Handle(ChamaServiceGetMonthlyStatsProcedure, connect.NewUnaryHandler(ChamaServiceGetMonthlyStatsProcedure, svc.GetMonthlyStats, opts...))

	return "/" + ChamaServiceName + "/", mux
}

// NewAuthServiceHandler builds an HTTP handler for AuthService.
func NewAuthServiceHandler(svc *AuthService, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(jsonCodec{})}, opts...)
	return "/" + AuthServiceName + "/", connect.NewUnaryHandler(AuthServiceLoginProcedure, svc.Login, opts...)
}

// ChamaServiceClient calls ChamaService over Connect with the JSON codec.
type ChamaServiceClient struct {
	listMembers          *connect.Client[ListMembersRequest, ListMembersResponse]
	createMember         *connect.Client[CreateMemberRequest, CreateMemberResponse]
	markPaid             *connect.Client[MarkPaidRequest, MarkPaidResponse]
	sendReminders        *connect.Client[SendRemindersRequest, SendRemindersResponse]
	getSummary           *connect.Client[GetSummaryRequest, GetSummaryResponse]
	listRecentPayments   *connect.Client[ListRecentPaymentsRequest, ListRecentPaymentsResponse]
	listPendingReminders *connect.Client[ListPendingRemindersRequest, ListPendingRemindersResponse]
	resetCycle           *connect.Client[ResetCycleRequest, ResetCycleResponse]
	searchMembers        *connect.Client[SearchMembersRequest, SearchMembersResponse]
	getPaymentHistory    *connect.Client[GetPaymentHistoryRequest, GetPaymentHistoryResponse]
	getDueDate           *connect.Client[GetDueDateRequest, GetDueDateResponse]
	setDueDate           *connect.Client[SetDueDateRequest, SetDueDateResponse]
	getMonthlyStats      *connect.Client[GetMonthlyStatsRequest, GetMonthlyStatsResponse]
}

// NewChamaServiceClient creates a client for the server at baseURL.
func NewChamaServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *ChamaServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(jsonCodec{})}, opts...)
	return &ChamaServiceClient{
		listMembers:          connect.NewClient[ListMembersRequest, ListMembersResponse](httpClient, baseURL+ChamaServiceListMembersProcedure, opts...),
		createMember:         connect.NewClient[CreateMemberRequest, CreateMemberResponse](httpClient, baseURL+ChamaServiceCreateMemberProcedure, opts...),
		markPaid:             connect.NewClient[MarkPaidRequest, MarkPaidResponse](httpClient, baseURL+ChamaServiceMarkPaidProcedure, opts...),
		sendReminders:        connect.NewClient[SendRemindersRequest, SendRemindersResponse](httpClient, baseURL+ChamaServiceSendRemindersProcedure, opts...),
		getSummary:           connect.NewClient[GetSummaryRequest, GetSummaryResponse](httpClient, baseURL+ChamaServiceGetSummaryProcedure, opts...),
		listRecentPayments:   connect.NewClient[ListRecentPaymentsRequest, ListRecentPaymentsResponse](httpClient, baseURL+ChamaServiceListRecentPaymentsProcedure, opts...),
		listPendingReminders: connect.NewClient[ListPendingRemindersRequest, ListPendingRemindersResponse](httpClient, baseURL+ChamaServiceListPendingRemindersProcedure, opts...),
		resetCycle:           connect.NewClient[ResetCycleRequest, ResetCycleResponse](httpClient, baseURL+ChamaServiceResetCycleProcedure, opts...),
		searchMembers:        connect.NewClient[SearchMembersRequest, SearchMembersResponse](httpClient, baseURL+ChamaServiceSearchMembersProcedure, opts...),
		getPaymentHistory:    connect.NewClient[GetPaymentHistoryRequest, GetPaymentHistoryResponse](httpClient, baseURL+ChamaServiceGetPaymentHistoryProcedure, opts...),
		getDueDate:           connect.NewClient[GetDueDateRequest, GetDueDateResponse](httpClient, baseURL+ChamaServiceGetDueDateProcedure, opts...),
		setDueDate:           connect.NewClient[SetDueDateRequest, SetDueDateResponse](httpClient, baseURL+ChamaServiceSetDueDateProcedure, opts...),
		getMonthlyStats:      connect.NewClient[GetMonthlyStatsRequest, GetMonthlyStatsResponse](httpClient, baseURL+ChamaServiceGetMonthlyStatsProcedure, opts...),
	}
}

func (c *ChamaServiceClient) ListMembers(ctx context.Context, req *connect.Request[ListMembersRequest]) (*connect.Response[ListMembersResponse], error) {
	return c.listMembers.CallUnary(ctx, req)
}

func (c *ChamaServiceClient) CreateMember(ctx context.Context, req *connect.Request[CreateMemberRequest]) (*connect.Response[CreateMemberResponse], error) {
	return c.createMember.CallUnary(ctx, req)
}

func (c *ChamaServiceClient) MarkPaid(ctx context.Context, req *connect.Request[MarkPaidRequest]) (*connect.Response[MarkPaidResponse], error) {
	return c.markPaid.CallUnary(ctx, req)
}

func (c *ChamaServiceClient) SendReminders(ctx context.Context, req *connect.Request[SendRemindersRequest]) (*connect.Response[SendRemindersResponse], error) {
	return c.sendReminders.CallUnary(ctx, req)
}

func (c *ChamaServiceClient) GetSummary(ctx context.Context, req *connect.Request[GetSummaryRequest]) (*connect.Response[GetSummaryResponse], error) {
	return c.getSummary.CallUnary(ctx, req)
}

func (c *ChamaServiceClient) ListRecentPayments(ctx context.Context, req *connect.Request[ListRecentPaymentsRequest]) (*connect.Response[ListRecentPaymentsResponse], error) {
	return c.listRecentPayments.CallUnary(ctx, req)
}

func (c *ChamaServiceClient) ListPendingReminders(ctx context.Context, req *connect.Request[ListPendingRemindersRequest]) (*connect.Response[ListPendingRemindersResponse], error) {
	return c.listPendingReminders.CallUnary(ctx, req)
}

func (c *ChamaServiceClient) ResetCycle(ctx context.Context, req *connect.Request[ResetCycleRequest]) (*connect.Response[ResetCycleResponse], error) {
	return c.resetCycle.CallUnary(ctx, req)
}

func (c *ChamaServiceClient) SearchMembers(ctx context.Context, req *connect.Request[SearchMembersRequest]) (*connect.Response[SearchMembersResponse], error) {
	return c.searchMembers.CallUnary(ctx, req)
}

func (c *ChamaServiceClient) GetPaymentHistory(ctx context.Context, req *connect.Request[GetPaymentHistoryRequest]) (*connect.Response[GetPaymentHistoryResponse], error) {
	return c.getPaymentHistory.CallUnary(ctx, req)
}

func (c *ChamaServiceClient) GetDueDate(ctx context.Context, req *connect.Request[GetDueDateRequest]) (*connect.Response[GetDueDateResponse], error) {
	return c.getDueDate.CallUnary(ctx, req)
}

func (c *ChamaServiceClient) SetDueDate(ctx context.Context, req *connect.Request[SetDueDateRequest]) (*connect.Response[SetDueDateResponse], error) {
	return c.setDueDate.CallUnary(ctx, req)
}

func (c *ChamaServiceClient) GetMonthlyStats(ctx context.Context, req *connect.Request[GetMonthlyStatsRequest]) (*connect.Response[GetMonthlyStatsResponse], error) {
	return c.getMonthlyStats.CallUnary(ctx, req)
}

// AuthServiceClient calls AuthService over Connect with the JSON codec.
type AuthServiceClient struct {
	login *connect.Client[LoginRequest, LoginResponse]
}

// NewAuthServiceClient creates a login client for the server at baseURL.
func NewAuthServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *AuthServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(jsonCodec{})}, opts...)
	return &AuthServiceClient{
		login: connect.NewClient[LoginRequest, LoginResponse](httpClient, baseURL+AuthServiceLoginProcedure, opts...),
	}
}

func (c *AuthServiceClient) Login(ctx context.Context, req *connect.Request[LoginRequest]) (*connect.Response[LoginResponse], error) {
	return c.login.CallUnary(ctx, req)
}
