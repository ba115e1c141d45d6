package service

import "go.mongodb.org/mongo-driver/bson/primitive"

// Notifier is told after every successful mutation of a user's data.
type Notifier interface {
	Notify(userID primitive.ObjectID)
}

// Notifiers calls each notifier in order.
type Notifiers []Notifier

func (n Notifiers) Notify(userID primitive.ObjectID) {
	for _, notifier := range n {
		if notifier != nil {
			notifier.Notify(userID)
		}
	}
}

type nopNotifier struct{}

func (nopNotifier) Notify(primitive.ObjectID) {}

func orNop(n Notifier) Notifier {
	if n == nil {
		return nopNotifier{}
	}
	return n
}
