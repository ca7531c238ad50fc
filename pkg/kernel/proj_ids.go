package kernel

type ResumeID string

func NewResumeID(id string) ResumeID { return ResumeID(id) }
func (r ResumeID) String() string    { return string(r) }
func (r ResumeID) IsEmpty() bool     { return string(r) == "" }

type PostingID string

func NewPostingID(id string) PostingID { return PostingID(id) }
func (p PostingID) String() string     { return string(p) }
func (p PostingID) IsEmpty() bool      { return string(p) == "" }

type ConfigID string

func NewConfigID(id string) ConfigID { return ConfigID(id) }
func (c ConfigID) String() string    { return string(c) }
func (c ConfigID) IsEmpty() bool     { return string(c) == "" }

type QueueItemID string

func NewQueueItemID(id string) QueueItemID { return QueueItemID(id) }
func (q QueueItemID) String() string       { return string(q) }
func (q QueueItemID) IsEmpty() bool        { return string(q) == "" }

type MatchID string

func NewMatchID(id string) MatchID { return MatchID(id) }
func (m MatchID) String() string   { return string(m) }
func (m MatchID) IsEmpty() bool    { return string(m) == "" }
