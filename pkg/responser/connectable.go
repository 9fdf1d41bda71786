package responser

// Connectable is implemented by payload types that know how to wrap
// themselves in an envelope. Implementations usually delegate to New:
//
//	func (i Item) ToDTO(opts ...responser.Option) responser.Responser[Item] {
//		return responser.New(i, opts...)
//	}
type Connectable[T any] interface {
	ToDTO(opts ...Option) Responser[T]
}

// Connector is the payload-less Connectable.
type Connector struct{}

// ToDTO implements Connectable.
func (Connector) ToDTO(opts ...Option) Responser[Empty] {
	return NewEmpty(opts...)
}

var _ Connectable[Empty] = Connector{}
