package checkers

import (
	"context"
	"errors"
)

// Closer is satisfied by broker connections that report their state.
type Closer interface {
	IsClosed() bool
}

type BrokerChecker struct {
	conn Closer
}

func NewBrokerChecker(conn Closer) *BrokerChecker {
	return &BrokerChecker{conn: conn}
}

func (c *BrokerChecker) Name() string { return "amqp" }

func (c *BrokerChecker) Check(context.Context) error {
	if c.conn.IsClosed() {
		return errors.New("connection closed")
	}
	return nil
}
