package eventbus

import (
	"github.com/colonyops/taskdeck/internal/core/notify"
	"github.com/colonyops/taskdeck/internal/core/task"
)

// TasksUpdatedPayload is emitted after a task snapshot has been applied to
// the registry.
type TasksUpdatedPayload struct {
	Tasks []task.Task
}

// UsersUpdatedPayload is emitted after a user snapshot has been applied to
// the registry.
type UsersUpdatedPayload struct {
	Users []task.User
}

// NotificationsUpdatedPayload carries the freshly derived active
// notification set.
type NotificationsUpdatedPayload struct {
	Notifications []notify.Notification
}

// PublishTasksUpdated enqueues a tasks.updated event.
func (bus *EventBus) PublishTasksUpdated(p TasksUpdatedPayload) {
	bus.send(EventTasksUpdated, p)
}

// SubscribeTasksUpdated registers a callback for tasks.updated events and
// returns an unsubscribe func.
func (bus *EventBus) SubscribeTasksUpdated(fn func(TasksUpdatedPayload)) func() {
	return bus.subscribe(EventTasksUpdated, func(payload any) {
		if p, ok := payload.(TasksUpdatedPayload); ok {
			fn(p)
		}
	})
}

// PublishUsersUpdated enqueues a users.updated event.
func (bus *EventBus) PublishUsersUpdated(p UsersUpdatedPayload) {
	bus.send(EventUsersUpdated, p)
}

// SubscribeUsersUpdated registers a callback for users.updated events and
// returns an unsubscribe func.
func (bus *EventBus) SubscribeUsersUpdated(fn func(UsersUpdatedPayload)) func() {
	return bus.subscribe(EventUsersUpdated, func(payload any) {
		if p, ok := payload.(UsersUpdatedPayload); ok {
			fn(p)
		}
	})
}

// PublishNotificationsUpdated enqueues a notifications.updated event.
func (bus *EventBus) PublishNotificationsUpdated(p NotificationsUpdatedPayload) {
	bus.send(EventNotificationsUpdated, p)
}

// SubscribeNotificationsUpdated registers a callback for
// notifications.updated events and returns an unsubscribe func.
func (bus *EventBus) SubscribeNotificationsUpdated(fn func(NotificationsUpdatedPayload)) func() {
	return bus.subscribe(EventNotificationsUpdated, func(payload any) {
		if p, ok := payload.(NotificationsUpdatedPayload); ok {
			fn(p)
		}
	})
}
