package mib

// Field is an opaque handle to a value held by the storage collaborator.
// Fields are numbered in blocks of 100 per Subsystem; FieldNone marks
// entries without a backing value.
type Field uint32

// FieldNone is the handle of entries that carry no stored value.
const FieldNone Field = 0

// Subsystem identifies the storage group, and thereby the server feature,
// a field belongs to.
type Subsystem uint8

const (
	SubsystemNone Subsystem = iota
	SubsystemConnection
	SubsystemDaemon
	SubsystemFTP
	SubsystemTimeouts
	SubsystemSNMP
	SubsystemTLS
	SubsystemSSH
	SubsystemSFTP
	SubsystemSCP
)

func (s Subsystem) String() string {
	switch s {
	case SubsystemNone:
		return "none"
	case SubsystemConnection:
		return "connection"
	case SubsystemDaemon:
		return "daemon"
	case SubsystemFTP:
		return "ftp"
	case SubsystemTimeouts:
		return "timeouts"
	case SubsystemSNMP:
		return "snmp"
	case SubsystemTLS:
		return "tls"
	case SubsystemSSH:
		return "ssh"
	case SubsystemSFTP:
		return "sftp"
	case SubsystemSCP:
		return "scp"
	default:
		return "unknown"
	}
}

// FieldBlock is the number of field handles reserved per subsystem.
const FieldBlock = 100

// Connection fields.
const (
	FieldConnServerName Field = Field(SubsystemConnection)*FieldBlock + iota + 1
	FieldConnServerAddr
	FieldConnServerPort
	FieldConnClientAddr
	FieldConnPID
	FieldConnUserName
	FieldConnProtocol
)

// Daemon fields.
const (
	FieldDaemonSoftware Field = Field(SubsystemDaemon)*FieldBlock + iota + 1
	FieldDaemonVersion
	FieldDaemonAdmin
	FieldDaemonUptime
	FieldDaemonVhostCount
	FieldDaemonConnCount
	FieldDaemonConnTotal
	FieldDaemonConnRefusedTotal
	FieldDaemonRestartCount
	FieldDaemonSegfaultCount
	FieldDaemonMaxInstTotal
	FieldDaemonMaxInstConf
)

// FTP session, login and transfer fields.
const (
	FieldFTPSessCount Field = Field(SubsystemFTP)*FieldBlock + iota + 1
	FieldFTPSessTotal
	FieldFTPSessCmdInvalidTotal

	FieldFTPLoginsTotal
	FieldFTPLoginsErrTotal
	FieldFTPLoginsErrBadUserTotal
	FieldFTPLoginsErrBadPasswordTotal
	FieldFTPLoginsErrGeneralTotal
	FieldFTPLoginsAnonCount
	FieldFTPLoginsAnonTotal

	FieldFTPXferDirListCount
	FieldFTPXferDirListTotal
	FieldFTPXferDirListErrTotal
	FieldFTPXferFileUploadCount
	FieldFTPXferFileUploadTotal
	FieldFTPXferFileUploadErrTotal
	FieldFTPXferFileDownloadCount
	FieldFTPXferFileDownloadTotal
	FieldFTPXferFileDownloadErrTotal
	FieldFTPXferKBUploadTotal
	FieldFTPXferKBDownloadTotal
)

// Timeout fields.
const (
	FieldTimeoutsIdleTotal Field = Field(SubsystemTimeouts)*FieldBlock + iota + 1
	FieldTimeoutsLoginTotal
	FieldTimeoutsNoXferTotal
	FieldTimeoutsStalledTotal
)

// SNMP agent fields.
const (
	FieldSNMPPktsRecvTotal Field = Field(SubsystemSNMP)*FieldBlock + iota + 1
	FieldSNMPPktsSentTotal
	FieldSNMPTrapsSentTotal
	FieldSNMPPktsAuthErrTotal
	FieldSNMPPktsDroppedTotal
)

// FTPS (TLS) fields.
const (
	FieldTLSSessCount Field = Field(SubsystemTLS)*FieldBlock + iota + 1
	FieldTLSSessTotal
	FieldTLSSessCtrlHandshakeErrTotal
	FieldTLSSessDataHandshakeErrTotal

	FieldTLSLoginsTotal
	FieldTLSLoginsErrTotal

	FieldTLSXferDirListCount
	FieldTLSXferDirListTotal
	FieldTLSXferDirListErrTotal
	FieldTLSXferFileUploadCount
	FieldTLSXferFileUploadTotal
	FieldTLSXferFileUploadErrTotal
	FieldTLSXferFileDownloadCount
	FieldTLSXferFileDownloadTotal
	FieldTLSXferFileDownloadErrTotal
	FieldTLSXferKBUploadTotal
	FieldTLSXferKBDownloadTotal
)

// SSH fields.
const (
	FieldSSHSessKexErrTotal Field = Field(SubsystemSSH)*FieldBlock + iota + 1
	FieldSSHSessClientCompressionTotal
	FieldSSHSessServerCompressionTotal

	FieldSSHLoginsHostbasedTotal
	FieldSSHLoginsHostbasedErrTotal
	FieldSSHLoginsKbdintTotal
	FieldSSHLoginsKbdintErrTotal
	FieldSSHLoginsPasswordTotal
	FieldSSHLoginsPasswordErrTotal
	FieldSSHLoginsPublickeyTotal
	FieldSSHLoginsPublickeyErrTotal
)

// SFTP fields.
const (
	FieldSFTPSessCount Field = Field(SubsystemSFTP)*FieldBlock + iota + 1
	FieldSFTPSessTotal
	FieldSFTPSessProtocolV3Total
	FieldSFTPSessProtocolV4Total
	FieldSFTPSessProtocolV5Total
	FieldSFTPSessProtocolV6Total

	FieldSFTPXferDirListCount
	FieldSFTPXferDirListTotal
	FieldSFTPXferDirListErrTotal
	FieldSFTPXferFileUploadCount
	FieldSFTPXferFileUploadTotal
	FieldSFTPXferFileUploadErrTotal
	FieldSFTPXferFileDownloadCount
	FieldSFTPXferFileDownloadTotal
	FieldSFTPXferFileDownloadErrTotal
	FieldSFTPXferKBUploadTotal
	FieldSFTPXferKBDownloadTotal
)

// SCP fields.
const (
	FieldSCPSessCount Field = Field(SubsystemSCP)*FieldBlock + iota + 1
	FieldSCPSessTotal

	FieldSCPXferFileUploadCount
	FieldSCPXferFileUploadTotal
	FieldSCPXferFileUploadErrTotal
	FieldSCPXferFileDownloadCount
	FieldSCPXferFileDownloadTotal
	FieldSCPXferFileDownloadErrTotal
	FieldSCPXferKBUploadTotal
	FieldSCPXferKBDownloadTotal
)
