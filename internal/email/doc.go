// Package email relays contact-form submissions to the operator mailbox.
//
// Arquitectura:
//
//	┌─────────────────────────────────────────────────────────────────┐
//	│                  HTTP Controller (POST /api/contact)            │
//	└───────────────────────────┬─────────────────────────────────────┘
//	                            │
//	                            ▼
//	┌─────────────────────────────────────────────────────────────────┐
//	│                           Relay                                 │
//	│  email.NewRelay(cfg, transports...)                             │
//	│    - Deliver(ctx, Submission)                                   │
//	│    - VerifyAll(ctx)                                             │
//	└───────────────────────────┬─────────────────────────────────────┘
//	                            │ primary → fallback
//	                            ▼
//	┌─────────────────────────────────────────────────────────────────┐
//	│                     Transport (SMTP)                            │
//	│  Verify(ctx) / Send(ctx, Message) sobre go-mail                 │
//	└─────────────────────────────────────────────────────────────────┘
package email
