package mail

import (
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"
	"github.com/emersion/go-message/mail"
	"github.com/projetoatleta/athlete_registration/pkg/athlete"
	"go.uber.org/zap"
)

var (
	errWithMsgReading = errors.New("Problem with reading one or more letters")
	errWithDBWriting  = errors.New("Problem with writing parsed rows to DB")
)

const (
	// Subjects have to look like "Inscrições 14.03.2026". The leading
	// letter is dropped from the pattern so capitalization does not
	// matter.
	SUBJ_REGEX = "nscrições\\s[0-9]{2}.[0-9]{2}.[0-9]{4}"

	// In case of connection problems with a mailbox the system retries a
	// few times with a fixed interval before giving up on this pass.
	COUNT_OF_RECONNECTIONS = 5
	RECONNECT_INTERVAL     = time.Minute * 10

	// The only attachment extension the roster parser handles.
	FILE_EXTENSION = ".xlsx"
)

type Service struct {
	mailboxes              []*connectionCredentials
	countOfmailsPerRequest uint32
	logger                 *zap.Logger
	store                  athlete.Store
	parser                 athlete.RosterParser
	ctx                    context.Context
}

// One structure per mailbox. previousMails remembers letters already
// processed so a re-fetch of the same inbox does not register the same
// roster twice. There is no amendment flow, a seen letter stays seen.
type connectionCredentials struct {
	hostname      string
	port          string
	username      string
	password      string
	previousMails map[seenLetter]bool
}

type seenLetter struct {
	date string
	from string
}

type Credentials struct {
	Hostname     []string
	Port         string
	Username     []string
	Password     []string
	CountOfMails uint32
}

func NewService(ctx context.Context, creds Credentials, logger *zap.Logger, store athlete.Store, parser athlete.RosterParser) *Service {
	mailBoxes := make([]*connectionCredentials, len(creds.Hostname))

	for i := range creds.Hostname {
		mailBoxes[i] = &connectionCredentials{
			hostname:      creds.Hostname[i],
			port:          creds.Port,
			username:      creds.Username[i],
			password:      creds.Password[i],
			previousMails: make(map[seenLetter]bool, 100),
		}
	}

	return &Service{mailboxes: mailBoxes, countOfmailsPerRequest: creds.CountOfMails,
		logger: logger, store: store, parser: parser, ctx: ctx}
}

func (s *Service) ChangeCountOfMailsPerReq(count uint32) {
	s.countOfmailsPerRequest = count
}

// CheckMails runs one intake pass over every configured mailbox. Each
// mailbox is read in its own goroutine with a reconnect loop; terminal
// errors land in the returned channel.
func (s *Service) CheckMails() chan error {
	errChn := make(chan error, len(s.mailboxes))

	for _, mailBox := range s.mailboxes {
		go func(errChn chan error, connData *connectionCredentials, count uint32, logger *zap.Logger) {
			var err error
			for i := 0; i < COUNT_OF_RECONNECTIONS; i++ {
				err = s.readLetters(connData, count)
				if err == nil {
					return
				} else if errors.Is(err, errWithMsgReading) || errors.Is(err, errWithDBWriting) {
					break
				}

				logger.Warn("readLetters returned err. We are trying to reconnect", zap.String("mail-box", connData.username))
				time.Sleep(RECONNECT_INTERVAL)
			}

			logger.Error("Unfortunately, we were unable to read mails", zap.String("mail-box", connData.username), zap.Error(err))
			errChn <- err

		}(errChn, mailBox, s.countOfmailsPerRequest, s.logger)
	}

	return errChn
}

func (s *Service) readLetters(connData *connectionCredentials, countOfmailsPerRequest uint32) error {
	c, err := client.DialTLS(fmt.Sprintf("%s:%s", connData.hostname, connData.port), nil)
	if err != nil {
		return fmt.Errorf("client.DialTLS failed: %w", err)
	}

	defer c.Logout()

	if err := c.Login(connData.username, connData.password); err != nil {
		return fmt.Errorf("c.Login failed: %w", err)
	}

	mbox, err := c.Select("INBOX", false)
	if err != nil {
		return fmt.Errorf("c.Select failed: %w", err)
	}

	if mbox.Messages == 0 {
		return nil
	}

	newCount := minCountOfUnReadMsg(c, mbox, countOfmailsPerRequest)

	from := uint32(1)
	to := mbox.Messages
	if mbox.Messages > (newCount - 1) {
		// We're using unsigned integers here, only subtract if the result is > 0
		from = mbox.Messages - (newCount - 1)
	}
	seqset := new(imap.SeqSet)
	seqset.AddRange(from, to)

	var section imap.BodySectionName
	items := []imap.FetchItem{section.FetchItem()}

	messages := make(chan *imap.Message, newCount+5)
	done := make(chan error, 1)

	done <- c.Fetch(seqset, items, messages)

	countOfErrs := 0

	for msg := range messages {
		r := msg.GetBody(&section)
		if r == nil {
			s.logger.Error("Server didn't returned message body", zap.String("source", "msg.GetBody"))
			countOfErrs++
			continue
		}

		mr, err := mail.CreateReader(r)
		if err != nil {
			s.logger.Error("Mail reader creation err", zap.Error(fmt.Errorf("mail.CreateReader failed: %w", err)))
			countOfErrs++
			continue
		}

		header := mr.Header

		dateOfMsg, err := header.Date()
		if err != nil {
			s.logger.Error("Header date getting err", zap.Error(fmt.Errorf("header.Date failed: %w", err)))
			countOfErrs++
			continue
		}

		fromAddrs, err := header.AddressList("From")
		if err != nil || len(fromAddrs) == 0 {
			s.logger.Error("Header sender address getting err", zap.Error(fmt.Errorf("header.AddressList failed: %w", err)))
			countOfErrs++
			continue
		}
		f := regexp.MustCompile("[a-z0-9.]+@[a-z.]+").FindString(strings.ToLower(fromAddrs[0].Address))

		subject, err := header.Subject()
		if err != nil {
			s.logger.Error("Header subject getting err", zap.Error(fmt.Errorf("header.Subject failed: %w", err)))
			countOfErrs++
			continue
		}

		letterInfo := fmt.Sprintf("msg sent: %s from: %s", dateOfMsg.Format("02-01-2006"), f)

		matched, err := regexp.MatchString(SUBJ_REGEX, subject)
		if err != nil || !matched {
			s.logger.Warn("Letter`s subject is unmatch regex", zap.String("source", "readLetters"),
				zap.String("letter-info", letterInfo))
			continue
		}

		// The second word of the subject is the enrollment deadline, a
		// roster for a window already closed is skipped.
		subjParts := strings.Split(subject, " ")
		deadline, err := time.Parse("02.01.2006", subjParts[1])
		if err != nil {
			s.logger.Warn("Subject date parsing err", zap.Error(fmt.Errorf("readLetters failed: %w", err)),
				zap.String("letter-info", letterInfo))
			continue
		}

		if time.Now().After(deadline) {
			s.logger.Warn("Subject date is non actual", zap.String("letter-info", letterInfo))
			continue
		}

		newLetter := seenLetter{
			date: dateOfMsg.Format("02-01-2006"),
			from: f,
		}
		if connData.previousMails[newLetter] {
			continue
		}

		if err := s.processAttachments(mr, f, subject, connData); err != nil {
			s.logger.Error("Attachment processing err", zap.Error(err), zap.String("letter-info", letterInfo))
			countOfErrs++
			continue
		}

		connData.previousMails[newLetter] = true
	}

	if err := <-done; err != nil {
		return fmt.Errorf("c.Fetch failed: %w", err)
	}

	if countOfErrs > 0 {
		return errWithMsgReading
	}

	return nil
}

// processAttachments feeds every xlsx attachment of a letter through the
// roster parser into the store and mails a summary back to the sender.
func (s *Service) processAttachments(mr *mail.Reader, sender string, subject string, connData *connectionCredentials) error {
	auth := s.mailboxAuth(*connData)

	for {
		p, err := mr.NextPart()
		if err == io.EOF {
			break
		} else if err != nil {
			return fmt.Errorf("mr.NextPart failed: %w", err)
		}

		h, ok := p.Header.(*mail.AttachmentHeader)
		if !ok {
			continue
		}

		filename, err := h.Filename()
		if err != nil || !strings.HasSuffix(strings.ToLower(filename), FILE_EXTENSION) {
			continue
		}

		resp := s.uploadRoster(p.Body)
		if err := s.responseToLetter(sender, subject, *connData, auth, resp); err != nil {
			s.logger.Warn("Feedback letter was not sent", zap.String("to", sender), zap.Error(err))
		}

		if resp.Err != nil {
			return fmt.Errorf("processAttachments failed: %w", resp.Err)
		}
	}

	return nil
}

func (s *Service) uploadRoster(r io.Reader) serviceResponseDTO {
	resp := serviceResponseDTO{}

	parsed, err := s.parser.ParseXlsx(r)
	if err != nil {
		resp.Err = err
		return resp
	}

	for _, a := range parsed.Athletes {
		a := a
		if err := athlete.Validate(&a); err != nil {
			resp.CountOfFailedRows++
			resp.ErrsOfFailedRows = append(resp.ErrsOfFailedRows, err)
			continue
		}

		if _, err := s.store.Create(s.ctx, a); err != nil {
			resp.CountOfFailedRows++
			resp.ErrsOfFailedRows = append(resp.ErrsOfFailedRows, err)
			continue
		}

		resp.AddedAthletes = append(resp.AddedAthletes, a.FullName)
		resp.CountOfAdded++
	}

	return resp
}

func minCountOfUnReadMsg(c *client.Client, mbox *imap.MailboxStatus, countOfmailsPerRequest uint32) uint32 {
	criteria := imap.NewSearchCriteria()
	criteria.WithoutFlags = []string{imap.SeenFlag}

	ids, err := c.Search(criteria)
	if err != nil {
		return countOfmailsPerRequest
	}

	if unread := uint32(len(ids)); unread > countOfmailsPerRequest {
		return unread
	}

	return countOfmailsPerRequest
}
