package rex

// Known service names, in the order they are exposed.
const (
	ServiceAccountUsers      = "AccountUsers"
	ServiceAdminDepartments  = "AdminDepartments"
	ServiceCalendarEvents    = "CalendarEvents"
	ServiceContacts          = "Contacts"
	ServiceContracts         = "Contracts"
	ServiceFeedback          = "Feedback"
	ServiceListings          = "Listings"
	ServiceMatchProfiles     = "MatchProfiles"
	ServiceNotes             = "Notes"
	ServiceProperties        = "Properties"
	ServicePublishedListings = "PublishedListings"
	ServiceReminders         = "Reminders"
	ServiceSuburbs           = "Suburbs"
)

// Services is the ordered list of every known service name.
var Services = []string{
	ServiceAccountUsers,
	ServiceAdminDepartments,
	ServiceCalendarEvents,
	ServiceContacts,
	ServiceContracts,
	ServiceFeedback,
	ServiceListings,
	ServiceMatchProfiles,
	ServiceNotes,
	ServiceProperties,
	ServicePublishedListings,
	ServiceReminders,
	ServiceSuburbs,
}

// readOnlyServices expose describe/read/search only.
var readOnlyServices = map[string]bool{
	ServicePublishedListings: true,
	ServiceSuburbs:           true,
}

// Registry maps every known service name to its descriptor. It is built once and
// never mutated afterwards.
type Registry struct {
	names    []string
	services map[string]*Service
}

// NewRegistry builds a descriptor for every name in Services.
func NewRegistry(dispatcher *Dispatcher) *Registry {
	r := &Registry{
		names:    append([]string(nil), Services...),
		services: make(map[string]*Service, len(Services)),
	}
	for _, name := range r.names {
		methods := readWriteMethods
		if readOnlyServices[name] {
			methods = readOnlyMethods
		}
		r.services[name] = newService(name, methods, dispatcher)
	}
	return r
}

// Get returns the descriptor for name.
func (r *Registry) Get(name string) (*Service, bool) {
	s, ok := r.services[name]
	return s, ok
}

// Names returns a copy of the known service names in order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}
