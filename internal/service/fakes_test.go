package service

import (
	"context"

	"ai-chat-be/internal/entity"
	"ai-chat-be/internal/repository"
	"ai-chat-be/internal/repository/contract"
	"ai-chat-be/internal/repository/specification"
	"ai-chat-be/internal/repository/unitofwork"
	"ai-chat-be/pkg/llm"

	"github.com/google/uuid"
)

// In-memory fakes for the repository layer. Spec arguments are ignored;
// each fake serves the single row the test seeds it with.

type fakeUserRepo struct {
	contract.UserRepository

	user       *entity.User
	increments int
	findErr    error
}

func (f *fakeUserRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.user, nil
}

func (f *fakeUserRepo) IncrementMessageCount(ctx context.Context, userId uuid.UUID) error {
	f.increments++
	if f.user != nil {
		f.user.MessageCount++
	}
	return nil
}

type fakeConversationRepo struct {
	contract.ConversationRepository

	conversation *entity.Conversation
	updated      *entity.Conversation
	touched      int
}

func (f *fakeConversationRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Conversation, error) {
	return f.conversation, nil
}

func (f *fakeConversationRepo) Update(ctx context.Context, conversation *entity.Conversation) error {
	f.updated = conversation
	return nil
}

func (f *fakeConversationRepo) Touch(ctx context.Context, id uuid.UUID) error {
	f.touched++
	return nil
}

type fakeMessageRepo struct {
	contract.MessageRepository

	messages []*entity.Message
	created  []*entity.Message
}

func (f *fakeMessageRepo) Create(ctx context.Context, message *entity.Message) error {
	f.created = append(f.created, message)
	return nil
}

func (f *fakeMessageRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Message, error) {
	return f.messages, nil
}

type fakeDocumentRepo struct {
	contract.DocumentRepository

	document *entity.Document
	upserted *entity.Document
}

func (f *fakeDocumentRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Document, error) {
	return f.document, nil
}

func (f *fakeDocumentRepo) Upsert(ctx context.Context, document *entity.Document) error {
	f.upserted = document
	return nil
}

type fakeUow struct {
	users         *fakeUserRepo
	conversations *fakeConversationRepo
	messages      *fakeMessageRepo
	documents     *fakeDocumentRepo
}

func (f *fakeUow) Begin(ctx context.Context) error { return nil }
func (f *fakeUow) Commit() error                   { return nil }
func (f *fakeUow) Rollback() error                 { return nil }

func (f *fakeUow) UserRepository() contract.UserRepository { return f.users }
func (f *fakeUow) ConversationRepository() contract.ConversationRepository {
	return f.conversations
}
func (f *fakeUow) MessageRepository() contract.MessageRepository   { return f.messages }
func (f *fakeUow) DocumentRepository() contract.DocumentRepository { return f.documents }
func (f *fakeUow) NotificationRepository() repository.NotificationRepository {
	return nil
}

type fakeUowFactory struct {
	uow *fakeUow
}

func (f *fakeUowFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return f.uow
}

type fakeBillingService struct {
	IBillingService

	subscribed bool
	err        error
}

func (f *fakeBillingService) IsSubscribed(ctx context.Context, userId uuid.UUID) (bool, error) {
	return f.subscribed, f.err
}

type fakePublisher struct {
	published [][]byte
}

func (f *fakePublisher) Publish(ctx context.Context, payload []byte) error {
	f.published = append(f.published, payload)
	return nil
}

// fakeLLM answers every Chat call with a canned reply.
type fakeLLM struct {
	reply string
	err   error
	calls int
}

func (f *fakeLLM) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	f.calls++
	return f.reply, f.err
}

func (f *fakeLLM) ChatStream(ctx context.Context, history []llm.Message, tools []llm.Tool, opts ...llm.Option) (llm.Stream, error) {
	f.calls++
	return nil, f.err
}

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }
